package lookup

import (
	"net/url"

	"github.com/labelsense/labelsense/constants"
)

// ProviderHost picks the lookup database for a product domain: cosmetics
// go to the beauty-facts provider, everything else to food-facts.
func ProviderHost(domain constants.Domain) string {
	if domain == constants.DomainCosmetic {
		return "world.openbeautyfacts.org"
	}
	return "world.openfoodfacts.org"
}

// SearchURL builds the provider search URL for one ingredient.
func SearchURL(host, ingredient string) string {
	q := url.Values{}
	q.Set("search_terms", ingredient)
	q.Set("search_simple", "1")
	q.Set("action", "process")
	q.Set("json", "1")
	q.Set("page_size", "1")
	return "https://" + host + "/cgi/search.pl?" + q.Encode()
}
