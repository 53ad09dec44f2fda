package fetch

// cityRef is one entry in the fixed reference table of notable world
// cities. Region is the name of the city's state or province when the
// regional source covers it, empty otherwise.
type cityRef struct {
	Name       string
	Country    string
	Region     string
	Lat        float64
	Lon        float64
	Population int64
}

// majorWorldCities is the fixed reference table driving city-level
// estimation. Populations are metro-area figures and intentionally static;
// they weight the proportional allocation, nothing else.
var majorWorldCities = []cityRef{
	// North America
	{Name: "New York", Country: "USA", Region: "New York", Lat: 40.7128, Lon: -74.0060, Population: 8336817},
	{Name: "Los Angeles", Country: "USA", Region: "California", Lat: 34.0522, Lon: -118.2437, Population: 3979576},
	{Name: "Chicago", Country: "USA", Region: "Illinois", Lat: 41.8781, Lon: -87.6298, Population: 2693976},
	{Name: "Toronto", Country: "Canada", Lat: 43.6532, Lon: -79.3832, Population: 2731571},
	{Name: "Mexico City", Country: "Mexico", Lat: 19.4326, Lon: -99.1332, Population: 21580000},

	// Europe
	{Name: "London", Country: "UK", Lat: 51.5074, Lon: -0.1278, Population: 9648110},
	{Name: "Paris", Country: "France", Lat: 48.8566, Lon: 2.3522, Population: 2161000},
	{Name: "Berlin", Country: "Germany", Lat: 52.5200, Lon: 13.4050, Population: 3669491},
	{Name: "Madrid", Country: "Spain", Lat: 40.4168, Lon: -3.7038, Population: 6642000},
	{Name: "Rome", Country: "Italy", Lat: 41.9028, Lon: 12.4964, Population: 2872800},
	{Name: "Amsterdam", Country: "Netherlands", Lat: 52.3676, Lon: 4.9041, Population: 872680},

	// Asia
	{Name: "Tokyo", Country: "Japan", Lat: 35.6762, Lon: 139.6503, Population: 37400068},
	{Name: "Beijing", Country: "China", Lat: 39.9042, Lon: 116.4074, Population: 21540000},
	{Name: "Mumbai", Country: "India", Lat: 19.0760, Lon: 72.8777, Population: 20400000},
	{Name: "Seoul", Country: "South Korea", Lat: 37.5665, Lon: 126.9780, Population: 9720846},
	{Name: "Singapore", Country: "Singapore", Lat: 1.3521, Lon: 103.8198, Population: 5850342},
	{Name: "Bangkok", Country: "Thailand", Lat: 13.7563, Lon: 100.5018, Population: 10350000},
	{Name: "Jakarta", Country: "Indonesia", Lat: -6.2088, Lon: 106.8456, Population: 10560000},

	// Middle East & Africa
	{Name: "Dubai", Country: "UAE", Lat: 25.2048, Lon: 55.2708, Population: 3400000},
	{Name: "Istanbul", Country: "Turkey", Lat: 41.0082, Lon: 28.9784, Population: 15460000},
	{Name: "Cairo", Country: "Egypt", Lat: 30.0444, Lon: 31.2357, Population: 20900000},
	{Name: "Lagos", Country: "Nigeria", Lat: 6.5244, Lon: 3.3792, Population: 15300000},
	{Name: "Johannesburg", Country: "South Africa", Lat: -26.2041, Lon: 28.0473, Population: 4434827},

	// South America
	{Name: "São Paulo", Country: "Brazil", Lat: -23.5558, Lon: -46.6396, Population: 12400000},
	{Name: "Buenos Aires", Country: "Argentina", Lat: -34.6118, Lon: -58.3960, Population: 15200000},
	{Name: "Lima", Country: "Peru", Lat: -12.0464, Lon: -77.0428, Population: 10700000},

	// Australia
	{Name: "Sydney", Country: "Australia", Lat: -33.8688, Lon: 151.2093, Population: 5312163},
	{Name: "Melbourne", Country: "Australia", Lat: -37.8136, Lon: 144.9631, Population: 5078193},
}

// countryAliases maps the reference table's short names onto the names the
// global source reports.
var countryAliases = map[string]string{
	"United Kingdom": "UK",
	"United States":  "USA",
	"Korea, South":   "South Korea",
}

type coord struct {
	Lat float64
	Lon float64
}

// countryCoordinates holds approximate capital coordinates for the major
// country tier. Countries absent here are dropped from that tier only.
var countryCoordinates = map[string]coord{
	"USA":           {38.9072, -77.0369},
	"China":         {39.9042, 116.4074},
	"India":         {28.6139, 77.2090},
	"Brazil":        {-15.7942, -47.8822},
	"Russia":        {55.7558, 37.6176},
	"UK":            {51.5074, -0.1278},
	"France":        {48.8566, 2.3522},
	"Germany":       {52.5200, 13.4050},
	"Iran":          {35.6892, 51.3890},
	"Turkey":        {39.9334, 32.8597},
	"Italy":         {41.9028, 12.4964},
	"Spain":         {40.4168, -3.7038},
	"Argentina":     {-34.6118, -58.3960},
	"Colombia":      {4.7110, -74.0721},
	"Poland":        {52.2297, 21.0122},
	"Ukraine":       {50.4501, 30.5234},
	"South Africa":  {-25.7479, 28.2293},
	"Peru":          {-12.0464, -77.0428},
	"Indonesia":     {-6.2088, 106.8456},
	"Netherlands":   {52.3676, 4.9041},
	"Chile":         {-33.4489, -70.6693},
	"Romania":       {44.4268, 26.1025},
	"Israel":        {31.7683, 35.2137},
	"Belgium":       {50.8503, 4.3517},
	"Iraq":          {33.3152, 44.3661},
	"Bangladesh":    {23.8103, 90.4125},
	"Sweden":        {59.3293, 18.0686},
	"Portugal":      {38.7223, -9.1393},
	"Japan":         {35.6762, 139.6503},
	"Serbia":        {44.7866, 20.4489},
	"Switzerland":   {46.9480, 7.4474},
	"Hungary":       {47.4979, 19.0402},
	"Jordan":        {31.9454, 35.9284},
	"Austria":       {48.2082, 16.3738},
	"Morocco":       {34.0209, -6.8416},
	"Lebanon":       {33.8547, 35.8623},
	"Saudi Arabia":  {24.7136, 46.6753},
	"South Korea":   {37.5665, 126.9780},
}

// regionCenter is the fallback coordinate for regions missing a lookup
// entry (the geographic center of the regional source's coverage).
var regionCenter = coord{39.8283, -98.5795}

// regionCoordinates holds approximate coordinates for the regions the
// regional source reports.
var regionCoordinates = map[string]coord{
	"Alabama":        {32.3617, -86.2792},
	"Alaska":         {58.3019, -134.4197},
	"Arizona":        {33.4484, -112.0740},
	"Arkansas":       {34.7465, -92.2896},
	"California":     {38.5816, -121.4944},
	"Colorado":       {39.7391, -104.9847},
	"Connecticut":    {41.7658, -72.6734},
	"Delaware":       {39.1612, -75.5264},
	"Florida":        {30.4518, -84.27277},
	"Georgia":        {33.7490, -84.3880},
	"Hawaii":         {21.3099, -157.8581},
	"Idaho":          {43.6150, -116.2023},
	"Illinois":       {39.7817, -89.6501},
	"Indiana":        {39.7910, -86.1480},
	"Iowa":           {41.5888, -93.6203},
	"Kansas":         {39.04, -95.69},
	"Kentucky":       {38.2009, -84.8733},
	"Louisiana":      {30.4515, -91.1871},
	"Maine":          {44.3106, -69.7795},
	"Maryland":       {38.9729, -76.5012},
	"Massachusetts":  {42.2352, -71.0275},
	"Michigan":       {42.3584, -84.9551},
	"Minnesota":      {44.9537, -93.0900},
	"Mississippi":    {32.3540, -90.1781},
	"Missouri":       {38.572954, -92.189283},
	"Montana":        {46.595805, -112.027031},
	"Nebraska":       {40.809868, -96.675345},
	"Nevada":         {39.161921, -119.767403},
	"New Hampshire":  {43.220093, -71.549896},
	"New Jersey":     {40.221741, -74.756138},
	"New Mexico":     {35.667231, -105.964575},
	"New York":       {42.659829, -73.781339},
	"North Carolina": {35.771, -78.638},
	"North Dakota":   {46.813343, -100.779004},
	"Ohio":           {39.961176, -82.998794},
	"Oklahoma":       {35.482309, -97.534994},
	"Oregon":         {44.931109, -123.029159},
	"Pennsylvania":   {40.269789, -76.875613},
	"Rhode Island":   {41.82355, -71.422132},
	"South Carolina": {34.000, -81.035},
	"South Dakota":   {44.367966, -100.336378},
	"Tennessee":      {36.165, -86.784},
	"Texas":          {30.266667, -97.75},
	"Utah":           {40.777477, -111.888237},
	"Vermont":        {44.26639, -72.58133},
	"Virginia":       {37.54, -77.46},
	"Washington":     {47.042418, -122.893077},
	"West Virginia":  {38.349497, -81.633294},
	"Wisconsin":      {43.074722, -89.384444},
	"Wyoming":        {41.145548, -104.802042},
}

// regionCoordinate returns the reference coordinate for a region name.
func regionCoordinate(name string) coord {
	if c, ok := regionCoordinates[name]; ok {
		return c
	}
	return regionCenter
}
