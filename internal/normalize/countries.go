// internal/normalize/countries.go
package normalize

// countryCodes maps canonical English country names and common
// abbreviations to ISO-3166 alpha-2 codes. Lookups are case-sensitive.
var countryCodes = map[string]string{
	"United States":                    "US",
	"USA":                              "US",
	"United Kingdom":                   "GB",
	"UK":                               "GB",
	"Germany":                          "DE",
	"France":                           "FR",
	"Canada":                           "CA",
	"Australia":                        "AU",
	"Japan":                            "JP",
	"China":                            "CN",
	"India":                            "IN",
	"Brazil":                           "BR",
	"Mexico":                           "MX",
	"South Korea":                      "KR",
	"Singapore":                        "SG",
	"Netherlands":                      "NL",
	"Switzerland":                      "CH",
	"Sweden":                           "SE",
	"Norway":                           "NO",
	"Denmark":                          "DK",
	"Finland":                          "FI",
	"Italy":                            "IT",
	"Spain":                            "ES",
	"Portugal":                         "PT",
	"Belgium":                          "BE",
	"Austria":                          "AT",
	"Poland":                           "PL",
	"Czech Republic":                   "CZ",
	"Hungary":                          "HU",
	"Slovakia":                         "SK",
	"Slovenia":                         "SI",
	"Croatia":                          "HR",
	"Romania":                          "RO",
	"Bulgaria":                         "BG",
	"Greece":                           "GR",
	"Cyprus":                           "CY",
	"Malta":                            "MT",
	"Estonia":                          "EE",
	"Latvia":                           "LV",
	"Lithuania":                        "LT",
	"Luxembourg":                       "LU",
	"Ireland":                          "IE",
	"Iceland":                          "IS",
	"New Zealand":                      "NZ",
	"South Africa":                     "ZA",
	"Egypt":                            "EG",
	"Nigeria":                          "NG",
	"Kenya":                            "KE",
	"Ghana":                            "GH",
	"Ethiopia":                         "ET",
	"Morocco":                          "MA",
	"Tunisia":                          "TN",
	"Algeria":                          "DZ",
	"Libya":                            "LY",
	"Sudan":                            "SD",
	"Chad":                             "TD",
	"Niger":                            "NE",
	"Mali":                             "ML",
	"Burkina Faso":                     "BF",
	"Senegal":                          "SN",
	"Guinea":                           "GN",
	"Sierra Leone":                     "SL",
	"Liberia":                          "LR",
	"Ivory Coast":                      "CI",
	"Togo":                             "TG",
	"Benin":                            "BJ",
	"Cameroon":                         "CM",
	"Central African Republic":         "CF",
	"Equatorial Guinea":                "GQ",
	"Gabon":                            "GA",
	"Congo":                            "CG",
	"Democratic Republic of the Congo": "CD",
	"Angola":                           "AO",
	"Zambia":                           "ZM",
	"Zimbabwe":                         "ZW",
	"Botswana":                         "BW",
	"Namibia":                          "NA",
	"Lesotho":                          "LS",
	"Eswatini":                         "SZ",
	"Madagascar":                       "MG",
	"Mauritius":                        "MU",
	"Seychelles":                       "SC",
	"Comoros":                          "KM",
	"Mayotte":                          "YT",
	"Reunion":                          "RE",
	"Djibouti":                         "DJ",
	"Somalia":                          "SO",
	"Eritrea":                          "ER",
	"Yemen":                            "YE",
	"Oman":                             "OM",
	"UAE":                              "AE",
	"United Arab Emirates":             "AE",
	"Qatar":                            "QA",
	"Bahrain":                          "BH",
	"Kuwait":                           "KW",
	"Iraq":                             "IQ",
	"Iran":                             "IR",
	"Afghanistan":                      "AF",
	"Pakistan":                         "PK",
	"Nepal":                            "NP",
	"Bhutan":                           "BT",
	"Bangladesh":                       "BD",
	"Myanmar":                          "MM",
	"Thailand":                         "TH",
	"Laos":                             "LA",
	"Cambodia":                         "KH",
	"Vietnam":                          "VN",
	"Malaysia":                         "MY",
	"Indonesia":                        "ID",
	"Philippines":                      "PH",
	"Taiwan":                           "TW",
	"Hong Kong":                        "HK",
	"Mongolia":                         "MN",
	"Kazakhstan":                       "KZ",
	"Uzbekistan":                       "UZ",
	"Turkmenistan":                     "TM",
	"Tajikistan":                       "TJ",
	"Kyrgyzstan":                       "KG",
	"Georgia":                          "GE",
	"Armenia":                          "AM",
	"Azerbaijan":                       "AZ",
	"Turkey":                           "TR",
	"Syria":                            "SY",
	"Lebanon":                          "LB",
	"Jordan":                           "JO",
	"Israel":                           "IL",
	"Palestine":                        "PS",
	"Saudi Arabia":                     "SA",
	"Russia":                           "RU",
	"Ukraine":                          "UA",
	"Belarus":                          "BY",
	"Moldova":                          "MD",
	"Albania":                          "AL",
	"North Macedonia":                  "MK",
	"Kosovo":                           "XK",
	"Serbia":                           "RS",
	"Montenegro":                       "ME",
	"Bosnia and Herzegovina":           "BA",
	"Vatican City":                     "VA",
	"San Marino":                       "SM",
	"Monaco":                           "MC",
	"Liechtenstein":                    "LI",
	"Andorra":                          "AD",
	"Gibraltar":                        "GI",
	"Faroe Islands":                    "FO",
	"Greenland":                        "GL",
	"Bermuda":                          "BM",
	"Cayman Islands":                   "KY",
	"British Virgin Islands":           "VG",
	"Anguilla":                         "AI",
	"Montserrat":                       "MS",
	"Turks and Caicos":                 "TC",
	"Aruba":                            "AW",
	"Curacao":                          "CW",
	"Sint Maarten":                     "SX",
	"Bonaire":                          "BQ",
	"Falkland Islands":                 "FK",
	"South Georgia":                    "GS",
	"French Guiana":                    "GF",
	"Suriname":                         "SR",
	"Guyana":                           "GY",
	"Venezuela":                        "VE",
	"Colombia":                         "CO",
	"Ecuador":                          "EC",
	"Peru":                             "PE",
	"Bolivia":                          "BO",
	"Paraguay":                         "PY",
	"Uruguay":                          "UY",
	"Chile":                            "CL",
	"Argentina":                        "AR",
	"Fiji":                             "FJ",
	"Papua New Guinea":                 "PG",
	"Solomon Islands":                  "SB",
	"Vanuatu":                          "VU",
	"New Caledonia":                    "NC",
	"French Polynesia":                 "PF",
	"Samoa":                            "WS",
	"Tonga":                            "TO",
	"Kiribati":                         "KI",
	"Tuvalu":                           "TV",
	"Nauru":                            "NR",
	"Palau":                            "PW",
	"Marshall Islands":                 "MH",
	"Micronesia":                       "FM",
	"Guam":                             "GU",
	"Northern Mariana Islands":         "MP",
	"American Samoa":                   "AS",
	"Cook Islands":                     "CK",
	"Niue":                             "NU",
	"Tokelau":                          "TK",
	"Pitcairn":                         "PN",
	"Wallis and Futuna":                "WF",
	"Easter Island":                    "CL",
	"Galapagos":                        "EC",
	"Tristan da Cunha":                 "SH",
	"Saint Helena":                     "SH",
	"Ascension":                        "AC",
	"Gough Island":                     "SH",
	"Inaccessible Island":              "SH",
	"Nightingale Islands":              "SH",
}
