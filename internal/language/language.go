package language

// Language is one translation target offered by the service.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// supported is the translation target list, ordered as presented to clients.
var supported = []Language{
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ru", Name: "Russian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese (Simplified)"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hi", Name: "Hindi"},
	{Code: "th", Name: "Thai"},
	{Code: "vi", Name: "Vietnamese"},
	{Code: "nl", Name: "Dutch"},
	{Code: "sv", Name: "Swedish"},
	{Code: "no", Name: "Norwegian"},
	{Code: "da", Name: "Danish"},
	{Code: "fi", Name: "Finnish"},
	{Code: "pl", Name: "Polish"},
	{Code: "tr", Name: "Turkish"},
	{Code: "uk", Name: "Ukrainian"},
	{Code: "he", Name: "Hebrew"},
	{Code: "cs", Name: "Czech"},
	{Code: "hu", Name: "Hungarian"},
	{Code: "bg", Name: "Bulgarian"},
	{Code: "ro", Name: "Romanian"},
	{Code: "sk", Name: "Slovak"},
	{Code: "sl", Name: "Slovenian"},
	{Code: "hr", Name: "Croatian"},
	{Code: "et", Name: "Estonian"},
	{Code: "lv", Name: "Latvian"},
	{Code: "lt", Name: "Lithuanian"},
}

// Supported returns a copy of the translation target list.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// NameFor resolves a language code to its display name. Unknown codes return
// false; callers may still pass free-form names straight to the translator.
func NameFor(code string) (string, bool) {
	for _, l := range supported {
		if l.Code == code {
			return l.Name, true
		}
	}
	return "", false
}
