package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	linkSeparator = regexp.MustCompile(`[,\n]`)
	linkLabel     = regexp.MustCompile(`(?i)^(github|linkedin|youtube|spotify|website|portfolio):\s*`)
)

var websiteKeywords = []string{"portfolio", "website", "site"}

var websiteDomains = []string{
	".dev", ".com", ".org", ".net", ".io", ".me", ".co",
	".github.io", ".netlify.app", ".vercel.app",
	".herokuapp.com", ".firebase.app", ".pages.dev",
}

// Links classifies the social links a member lists, keyed by platform name.
// Skip keywords yield an empty map; so does input with nothing recognisable.
// Known platforms take precedence over the personal-website heuristics, and
// additional personal sites get counter keys (website, website2, website3, ...)
// because downstream consumers key by platform name rather than position.
func Links(text string) map[string]string {
	links := make(map[string]string)
	if strings.TrimSpace(text) == "" || IsSkip(text) {
		return links
	}

	for _, segment := range linkSeparator.Split(text, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		segment = linkLabel.ReplaceAllString(segment, "")
		lower := strings.ToLower(segment)

		switch {
		case strings.Contains(lower, "github.com"):
			links["github"] = withScheme(segment)
		case strings.Contains(lower, "linkedin.com"):
			links["linkedin"] = withScheme(segment)
		case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
			links["youtube"] = withScheme(segment)
		case strings.Contains(lower, "spotify.com"):
			links["spotify"] = withScheme(segment)
		case looksLikeWebsite(lower):
			links[nextWebsiteKey(links)] = withScheme(segment)
		}
	}

	return links
}

func looksLikeWebsite(lower string) bool {
	for _, keyword := range websiteKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	for _, domain := range websiteDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return strings.HasPrefix(lower, "http")
}

func nextWebsiteKey(links map[string]string) string {
	key := "website"
	counter := 1
	for {
		if _, taken := links[key]; !taken {
			return key
		}
		counter++
		key = "website" + strconv.Itoa(counter)
	}
}

func withScheme(url string) string {
	if strings.HasPrefix(url, "http") {
		return url
	}
	return "https://" + url
}
