package stations

// Fixture is a small directory used across tests. London Bridge and London
// Euston score the same for "London", so it is ambiguous; "Liverpool" has a
// unique best match in Liverpool Lime Street.
var Fixture = []Station{
	{Code: "ZLS", Name: "London Liverpool Street"},
	{Code: "NRW", Name: "Norwich"},
	{Code: "IPS", Name: "Ipswich"},
	{Code: "COL", Name: "Colchester"},
	{Code: "CBG", Name: "Cambridge"},
	{Code: "SRA", Name: "Stratford (London)"},
	{Code: "LBG", Name: "London Bridge"},
	{Code: "KGX", Name: "London Kings Cross"},
	{Code: "EUS", Name: "London Euston"},
	{Code: "LIV", Name: "Liverpool Lime Street"},
	{Code: "DIS", Name: "Diss"},
}
