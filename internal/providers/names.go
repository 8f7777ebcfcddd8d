package providers

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nameSuffixes = map[string]bool{"jr": true, "sr": true, "ii": true, "iii": true, "iv": true}

// NormalizeName folds a display name into a join key shared by the roster,
// injury and game-log sources: lowercase ASCII, punctuation to spaces,
// generational suffixes dropped.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)
	folded = strings.NewReplacer(".", " ", ",", " ", "-", " ", "'", "").Replace(folded)

	parts := strings.Fields(folded)
	kept := parts[:0]
	for _, p := range parts {
		if nameSuffixes[p] {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, " ")
}

// espnTeamCodes maps common abbreviations onto ESPN's team slugs.
var espnTeamCodes = map[string]string{
	"ATL": "atl", "BOS": "bos", "BKN": "bkn", "CHA": "cha", "CHI": "chi",
	"CLE": "cle", "DAL": "dal", "DEN": "den", "DET": "det", "GSW": "gs",
	"GS": "gs", "HOU": "hou", "IND": "ind", "LAC": "lac", "LAL": "lal",
	"MEM": "mem", "MIA": "mia", "MIL": "mil", "MIN": "min", "NOP": "no",
	"NO": "no", "NYK": "ny", "NY": "ny", "OKC": "okc", "ORL": "orl",
	"PHI": "phi", "PHX": "phx", "POR": "por", "SAC": "sac", "SAS": "sa",
	"SA": "sa", "TOR": "tor", "UTA": "utah", "UTAH": "utah", "WAS": "wsh",
	"WSH": "wsh",
}

// ESPNTeamCode returns ESPN's slug for a team abbreviation.
func ESPNTeamCode(team string) string {
	upper := strings.ToUpper(strings.TrimSpace(team))
	if code, ok := espnTeamCodes[upper]; ok {
		return code
	}
	return strings.ToLower(upper)
}

// canonicalTeams maps ESPN's short abbreviations back to the three-letter form.
var canonicalTeams = map[string]string{
	"GS": "GSW", "NO": "NOP", "NY": "NYK", "SA": "SAS", "UTAH": "UTA", "WSH": "WAS",
}

func CanonicalTeam(abbr string) string {
	upper := strings.ToUpper(strings.TrimSpace(abbr))
	if c, ok := canonicalTeams[upper]; ok {
		return c
	}
	return upper
}
