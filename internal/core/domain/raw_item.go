package domain

// RawItem is what a fetch adapter extracts from a source payload.
// Nothing is guaranteed present; adapters try to keep Title and URL non-empty.
type RawItem struct {
	Title          string   `mapstructure:"title"`
	URL            string   `mapstructure:"url"`
	ApplicationURL string   `mapstructure:"applicationUrl"`
	Summary        string   `mapstructure:"summary"`
	Deadline       string   `mapstructure:"deadline"`
	Country        string   `mapstructure:"country"`
	Category       string   `mapstructure:"category"`
	Organization   string   `mapstructure:"organization"`
	Type           string   `mapstructure:"type"`
	EducationLevel string   `mapstructure:"educationLevel"`
	Fields         []string `mapstructure:"fields"`
	Duration       string   `mapstructure:"duration"`
	Eligibility    string   `mapstructure:"eligibility"`
	Funding        string   `mapstructure:"funding"`
	Tags           []string `mapstructure:"tags"`
	Requirements   []string `mapstructure:"requirements"`
	Benefits       []string `mapstructure:"benefits"`

	// Source is the name of the descriptor that produced the item.
	Source string `mapstructure:"-"`
}

// RawItemFields lists the field names accepted by mappings, markup extras
// and tabular header aliases.
var RawItemFields = []string{
	"title", "url", "applicationUrl", "summary", "deadline", "country",
	"category", "organization", "type", "educationLevel", "fields",
	"duration", "eligibility", "funding", "tags", "requirements", "benefits",
}

// ListFields are the RawItem fields holding sequences of strings.
var ListFields = map[string]bool{
	"fields":       true,
	"tags":         true,
	"requirements": true,
	"benefits":     true,
}

// IsRawItemField reports whether name is a RawItem field.
func IsRawItemField(name string) bool {
	for _, f := range RawItemFields {
		if f == name {
			return true
		}
	}
	return false
}

// HasIdentity reports whether the item carries both a title and a link.
func (r RawItem) HasIdentity() bool {
	return r.Title != "" && (r.URL != "" || r.ApplicationURL != "")
}
