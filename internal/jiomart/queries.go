package jiomart

import (
	"fmt"
	"strings"
)

const (
	baseURL        = "https://www.jiomart.com"
	searchEndpoint = baseURL + "/trex/autoSearch"
	searchBranch   = "projects/sr-project-jiomart-jfront-prod/locations/global/catalogs/default_catalog/branches/0"
	searchMode     = "PRODUCT_SEARCH_ONLY"

	defaultPageSize = 50
)

var (
	availableRegions = []string{
		"PANINDIABOOKS", "PANINDIACRAFT", "PANINDIADIGITAL", "PANINDIAFASHION",
		"PANINDIAFURNITURE", "TH91", "PANINDIAGROCERIES", "PANINDIAHOMEANDKITCHEN",
		"PANINDIAHOMEIMPROVEMENT", "PANINDIAJEWEL", "PANINDIALOCALSHOPS",
		"PANINDIASTL", "PANINDIAWELLNESS",
	}
	firstPartyStores = []string{
		"ALL", "U3FP", "VLOR", "254", "N892", "60", "270", "SF11", "SF40", "SX9A",
		"SC28", "SK1M", "R810", "SZ9U", "R696", "SJ93", "R396", "SE40", "S3TP",
		"SLKO", "R406",
	}
	thirdPartyStores = []string{
		"ALL", "3PQXWBTGFC02", "3PS0T7LTFC06", "3PKXPHZAFC02", "3PQZUIDAFC02",
		"3PUSUYR4FC03", "3P7IYTP8FC04", "3PPKDT3ONFC26", "3P87THZUFC02",
		"3P0YYXK1FC01", "3PMXGPK6FC02", "3PPJ4O5I8FC07", "3PCGEVZFFC03",
		"3PT79I5BFC02", "3PMBAR4CFC04", "groceries_zone_non-essential_services",
		"general_zone", "groceries_zone_essential_services", "fashion_zone",
		"electronics_zone",
	}
)

// catalogFilter is the fixed filter expression the web app sends: active
// items sold by JioMart in the national regions, stocked by a first or
// third party store, excluding alcohol.
var catalogFilter = fmt.Sprintf(
	`attributes.status:ANY("active") AND (attributes.mart_availability:ANY("JIO", "JIO_WA")) AND (attributes.available_regions:ANY(%s)) AND ((attributes.inv_stores_1p:ANY(%s) OR attributes.inv_stores_3p:ANY(%s))) AND ( NOT attributes.vertical_code:ANY("ALCOHOL"))`,
	quoteList(availableRegions), quoteList(firstPartyStores), quoteList(thirdPartyStores),
)

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = `"` + s + `"`
	}
	return strings.Join(quoted, ", ")
}

// SearchPayload is the autoSearch request body.
type SearchPayload struct {
	Query               string              `json:"query"`
	PageSize            int                 `json:"pageSize"`
	VisitorID           string              `json:"visitorId"`
	Filter              string              `json:"filter"`
	CanonicalFilter     string              `json:"canonicalFilter"`
	SearchMode          string              `json:"searchMode"`
	Branch              string              `json:"branch"`
	UserInfo            userInfo            `json:"userInfo"`
	SpellCorrectionSpec spellCorrectionSpec `json:"spellCorrectionSpec"`
	QueryExpansionSpec  queryExpansionSpec  `json:"queryExpansionSpec"`
}

type userInfo struct {
	UserID string `json:"userId"`
}

type spellCorrectionSpec struct {
	Mode string `json:"mode"`
}

type queryExpansionSpec struct {
	Condition            string `json:"condition"`
	PinUnexpandedResults bool   `json:"pinUnexpandedResults"`
}

// BuildSearchPayload assembles the autoSearch request body.
func BuildSearchPayload(query string, pageSize int, visitorID, userID string) SearchPayload {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return SearchPayload{
		Query:               query,
		PageSize:            pageSize,
		VisitorID:           visitorID,
		Filter:              catalogFilter,
		CanonicalFilter:     catalogFilter,
		SearchMode:          searchMode,
		Branch:              searchBranch,
		UserInfo:            userInfo{UserID: userID},
		SpellCorrectionSpec: spellCorrectionSpec{Mode: "AUTO"},
		QueryExpansionSpec:  queryExpansionSpec{Condition: "AUTO", PinUnexpandedResults: true},
	}
}
