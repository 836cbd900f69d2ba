// Package geo maps Sri Lankan city and town names to their administrative
// districts, the geographic granularity the forecast model works at.
package geo

import "sort"

var cityToDistrict = map[string]string{
	// Colombo District suburbs/cities
	"Dehiwala": "Colombo", "Mount Lavinia": "Colombo",
	"Moratuwa": "Colombo", "Nugegoda": "Colombo",
	"Maharagama": "Colombo", "Battaramulla": "Colombo",
	"Kaduwela": "Colombo", "Malabe": "Colombo",
	"Pannipitiya": "Colombo", "Homagama": "Colombo",
	"Piliyandala": "Colombo", "Kottawa": "Colombo",
	"Boralesgamuwa": "Colombo", "Angoda": "Colombo",
	"Kolonnawa": "Colombo", "Rajagiriya": "Colombo",
	"Talawatugoda": "Colombo", "Kotte": "Colombo",
	"Athurugiriya": "Colombo", "Padukka": "Colombo",
	"Avissawella": "Colombo", "Hanwella": "Colombo",
	"Thalawathugoda": "Colombo", "Wellampitiya": "Colombo",
	"Nawala": "Colombo", "Narahenpita": "Colombo",
	"Dematagoda": "Colombo", "Maradana": "Colombo",
	"Kotahena": "Colombo", "Grandpass": "Colombo",
	"Bambalapitiya": "Colombo", "Havelock Town": "Colombo",
	"Thurstan": "Colombo", "Borella": "Colombo",
	"Cinnamon Gardens": "Colombo", "Colombo 1": "Colombo",
	"Colombo 2": "Colombo", "Colombo 3": "Colombo",
	"Colombo 4": "Colombo", "Colombo 5": "Colombo",
	"Colombo 6": "Colombo", "Colombo 7": "Colombo",
	"Colombo 8": "Colombo", "Colombo 9": "Colombo",
	"Colombo 10": "Colombo", "Colombo 11": "Colombo",
	"Colombo 12": "Colombo", "Colombo 13": "Colombo",
	"Colombo 14": "Colombo", "Colombo 15": "Colombo",
	"Colombo": "Colombo",

	// Gampaha District
	"Negombo": "Gampaha", "Wattala": "Gampaha",
	"Ja-Ela": "Gampaha", "Kelaniya": "Gampaha",
	"Kiribathgoda": "Gampaha", "Kadawatha": "Gampaha",
	"Ragama": "Gampaha", "Gampaha": "Gampaha",
	"Minuwangoda": "Gampaha", "Ekala": "Gampaha",
	"Veyangoda": "Gampaha", "Nittambuwa": "Gampaha",
	"Mirigama": "Gampaha", "Divulapitiya": "Gampaha",
	"Ganemulla": "Gampaha", "Katunayake": "Gampaha",
	"Seeduwa": "Gampaha", "Peliyagoda": "Gampaha",
	"Hendala": "Gampaha", "Dalugama": "Gampaha",

	// Kalutara District
	"Kalutara": "Kalutara", "Panadura": "Kalutara",
	"Horana": "Kalutara", "Bandaragama": "Kalutara",
	"Ingiriya": "Kalutara", "Agalawatta": "Kalutara",
	"Aluthgama": "Kalutara", "Beruwala": "Kalutara",
	"Wadduwa": "Kalutara", "Payagala": "Kalutara",
	"Matugama": "Kalutara", "Bulathsinhala": "Kalutara",

	// Kandy District
	"Kandy": "Kandy", "Peradeniya": "Kandy",
	"Katugastota": "Kandy", "Gampola": "Kandy",
	"Nawalapitiya": "Kandy", "Akurana": "Kandy",
	"Digana": "Kandy", "Kundasale": "Kandy",
	"Ampitiya": "Kandy", "Gelioya": "Kandy",

	// Galle District
	"Galle": "Galle", "Hikkaduwa": "Galle",
	"Ambalangoda": "Galle", "Elpitiya": "Galle",
	"Karandeniya": "Galle", "Baddegama": "Galle",
	"Bentota": "Galle", "Balapitiya": "Galle",

	// Matara District
	"Matara": "Matara", "Weligama": "Matara",
	"Mirissa": "Matara", "Dickwella": "Matara",
	"Akuressa": "Matara", "Deniyaya": "Matara",
	"Kamburupitiya": "Matara", "Hakmana": "Matara",

	// Hambantota District
	"Hambantota": "Hambantota", "Tangalle": "Hambantota",
	"Tissamaharama": "Hambantota", "Ambalantota": "Hambantota",
	"Suriyawewa": "Hambantota",

	// Kurunegala District
	"Kurunegala": "Kurunegala", "Kuliyapitiya": "Kurunegala",
	"Narammala": "Kurunegala", "Pannala": "Kurunegala",
	"Giriulla": "Kurunegala", "Alawwa": "Kurunegala",

	// Puttalam District
	"Puttalam": "Puttalam", "Chilaw": "Puttalam",
	"Wennappuwa": "Puttalam", "Marawila": "Puttalam",

	// Anuradhapura District
	"Anuradhapura": "Anuradhapura", "Mihintale": "Anuradhapura",
	"Kekirawa": "Anuradhapura",

	// Others - district = major city
	"Polonnaruwa": "Polonnaruwa",
	"Badulla":     "Badulla", "Bandarawela": "Badulla",
	"Ella":        "Badulla", "Haputale": "Badulla",
	"Monaragala":  "Monaragala",
	"Ratnapura":   "Ratnapura", "Embilipitiya": "Ratnapura",
	"Kegalle":     "Kegalle", "Mawanella": "Kegalle",
	"Nuwara Eliya": "Nuwara Eliya", "Hatton": "Nuwara Eliya",
	"Jaffna":      "Jaffna", "Chavakachcheri": "Jaffna",
	"Vavuniya":    "Vavuniya",
	"Trincomalee": "Trincomalee",
	"Batticaloa":  "Batticaloa",
	"Ampara":      "Ampara", "Kalmunai": "Ampara",
	"Matale":      "Matale",
}

// District resolves a city or town name to its district. Names not in the
// table pass through unchanged, so district-level input keeps working.
func District(city string) string {
	if d, ok := cityToDistrict[city]; ok {
		return d
	}
	return city
}

// Known reports whether the name appears in the city table.
func Known(city string) bool {
	_, ok := cityToDistrict[city]
	return ok
}

// Districts returns the sorted set of districts covered by the table.
func Districts() []string {
	seen := make(map[string]struct{})
	for _, d := range cityToDistrict {
		seen[d] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
