package main

// Profile is a single entry of the directory. It is a plain value; copying it
// yields an independent profile.
type Profile struct {
	Username      string `json:"username"`
	Upshot        string `json:"upshot"`
	SunSign       string `json:"sun_sign"`
	Industry      string `json:"industry"`
	Description   string `json:"description"`
	ProfilePicB64 string `json:"profile_pic_b64"`
}

// allSunSigns is the closed set of sun signs in canonical display order.
var allSunSigns = [12]string{
	"Capricorn",
	"Aquarius",
	"Pisces",
	"Aries",
	"Taurus",
	"Gemini",
	"Cancer",
	"Leo",
	"Virgo",
	"Libra",
	"Scorpio",
	"Sagittarius",
}

// sunSigns returns a fresh copy of the canonical sun sign sequence.
func sunSigns() []string {
	out := make([]string, len(allSunSigns))
	copy(out, allSunSigns[:])
	return out
}

// Industries offered by the create and filter forms. Profiles may carry any
// industry tag; these are only the ones the UI suggests.
var knownIndustries = []string{"tech", "finance", "e-commerce", "sports", "unknown"}
