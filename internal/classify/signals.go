package classify

import (
	"regexp"
	"strings"

	"github.com/QUICKADSWORK/quickads-youtube-creator-search-engine/internal/model"
)

// Term lists behind the lexical signals. These are heuristics tuned for
// influencer discovery, not ground truth: the classifier only has to be a
// decent filter.

// brandTitleTerms mark official/corporate channels when found in the title.
var brandTitleTerms = []string{
	// Company suffixes
	"official", "inc", "llc", "ltd", "corp", "corporation", "company",
	// Major platforms and brands
	"coursera", "udemy", "udacity", "linkedin learning", "skillshare",
	"google", "microsoft", "amazon", "meta", "facebook", "hubspot",
	"shopify", "wix", "squarespace", "godaddy", "hostinger",
	"semrush", "ahrefs", "mailchimp", "salesforce",
	"adobe", "canva", "figma", "notion",
	// Education platforms
	"khan academy", "ted-ed", "ted talks", "masterclass",
	"brilliant", "codecademy", "freecodecamp",
	// News and media outfits
	"news", "times", "journal", "magazine", "media group",
	"network", "studios", "productions", "entertainment",
	// Generic corporate phrasing
	"headquarters", "global", "worldwide", "international",
}

// corporatePhrases mark corporate voice in the channel description.
var corporatePhrases = []string{
	"we are a", "our company", "our team", "our mission",
	"founded in", "established in", "leading provider",
	"official channel", "official youtube", "subscribe to our",
}

// creatorPhrases are first-person journey markers typical of individual
// creators.
var creatorPhrases = []string{
	"with me", "my journey", "how i", "i made", "i earned",
	"tips from", "honest review", "real talk",
	"day in my life", "behind the scenes",
}

// personalPhrases are direct self-introductions.
var personalPhrases = []string{
	"i am", "i'm", "my name", "hey guys", "hey everyone",
	"welcome to my", "i help", "i teach", "i show",
}

var trademarkGlyphs = []string{"™", "®", "©"}

// possessiveTitleRe matches titles like "Jane's Daily Vlog".
var possessiveTitleRe = regexp.MustCompile(`^[A-Za-z]+'s\s`)

// personalNameRe matches a plain "Firstname Lastname" style title.
var personalNameRe = regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+$`)

// Subscriber bands. Channels above megaSubscribers are treated as brands;
// the creator band only ever acts as a tie-breaker.
const (
	megaSubscribers    int64 = 5_000_000
	creatorBandMinSubs int64 = 1_000
	creatorBandMaxSubs int64 = 2_000_000
)

func hasBrandTitleTerm(c model.Candidate) bool {
	return containsAnyWord(strings.ToLower(c.Title), brandTitleTerms)
}

func hasTrademarkGlyph(c model.Candidate) bool {
	for _, g := range trademarkGlyphs {
		if strings.Contains(c.Title, g) {
			return true
		}
	}
	return false
}

func hasCorporatePhrase(c model.Candidate) bool {
	desc := strings.ToLower(c.Description)
	for _, p := range corporatePhrases {
		if strings.Contains(desc, p) {
			return true
		}
	}
	return false
}

func hasBrandCustomURL(c model.Candidate) bool {
	u := strings.ToLower(c.CustomURL)
	return u != "" && (strings.Contains(u, "official") || strings.Contains(u, "inc"))
}

func hasMegaSubscribers(c model.Candidate) bool {
	return !c.SubscribersHidden && c.Subscribers > megaSubscribers
}

func hasCreatorPhrase(c model.Candidate) bool {
	desc := strings.ToLower(c.Description)
	for _, p := range creatorPhrases {
		if strings.Contains(desc, p) {
			return true
		}
	}
	return false
}

func hasPersonalPhrase(c model.Candidate) bool {
	desc := strings.ToLower(c.Description)
	for _, p := range personalPhrases {
		if strings.Contains(desc, p) {
			return true
		}
	}
	return false
}

func hasPersonalNameTitle(c model.Candidate) bool {
	title := strings.TrimSpace(c.Title)
	return possessiveTitleRe.MatchString(title) || personalNameRe.MatchString(title)
}

// A hidden subscriber count is unknown, not zero: neither band fires.
func inCreatorBand(c model.Candidate) bool {
	return !c.SubscribersHidden &&
		c.Subscribers >= creatorBandMinSubs && c.Subscribers <= creatorBandMaxSubs
}

func outsideCreatorBand(c model.Candidate) bool {
	return !c.SubscribersHidden && !inCreatorBand(c)
}

// containsAnyWord matches terms on word boundaries so "inc" does not fire
// inside "income".
func containsAnyWord(text string, terms []string) bool {
	for _, term := range terms {
		idx := 0
		for {
			i := strings.Index(text[idx:], term)
			if i < 0 {
				break
			}
			start := idx + i
			end := start + len(term)
			if boundaryBefore(text, start) && boundaryAfter(text, end) {
				return true
			}
			idx = start + 1
		}
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	return i == 0 || !isWordByte(s[i-1])
}

func boundaryAfter(s string, i int) bool {
	return i >= len(s) || !isWordByte(s[i])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
