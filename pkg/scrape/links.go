package scrape

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DomainLinks returns the absolute http(s) links on the page whose host is
// domain or one of its subdomains, without fragments and sorted.
func DomainLinks(doc *goquery.Document, pageURL, domain string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	domain = strings.TrimPrefix(strings.ToLower(domain), "www.")
	set := map[string]struct{}{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		link := base.ResolveReference(ref)
		if link.Scheme != "http" && link.Scheme != "https" {
			return
		}
		if !sameDomain(link.Hostname(), domain) {
			return
		}

		link.Fragment = ""
		set[link.String()] = struct{}{}
	})

	links := make([]string, 0, len(set))
	for link := range set {
		links = append(links, link)
	}
	sort.Strings(links)

	return links
}

func sameDomain(host, domain string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// MatchKeywords returns the keywords found in text, compared case-insensitively.
func MatchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	matched := []string{}
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			matched = append(matched, k)
		}
	}
	return matched
}
