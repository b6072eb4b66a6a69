package keyword

import "newsbug/internal/model"

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string            `json:"type"`
	Properties FeatureProperties `json:"properties"`
	Geometry   Geometry          `json:"geometry"`
}

type FeatureProperties struct {
	ID        int    `json:"id"`
	Keyword   string `json:"keyword"`
	CaseCount int    `json:"caseCount"`
	Location  string `json:"location"`
	ArticleID string `json:"articleId"`
	SourceID  string `json:"sourceId"`
}

// Geometry coordinates are [longitude, latitude].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func ToFeatureCollection(items []model.KeywordDetails) FeatureCollection {
	features := make([]Feature, 0, len(items))
	for _, k := range items {
		features = append(features, Feature{
			Type: "Feature",
			Properties: FeatureProperties{
				ID:        k.ID,
				Keyword:   k.Keyword,
				CaseCount: k.CaseCount,
				Location:  k.Location,
				ArticleID: k.ArticleID,
				SourceID:  k.SourceID,
			},
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: [2]float64{k.Longitude, k.Latitude},
			},
		})
	}

	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// Center is the mean latitude and longitude of the rows.
func Center(items []model.KeywordDetails) (lat, lng float64) {
	if len(items) == 0 {
		return 0, 0
	}

	for _, k := range items {
		lat += k.Latitude
		lng += k.Longitude
	}

	n := float64(len(items))
	return lat / n, lng / n
}

// TotalCases sums the case counts, as the map's cluster bubbles do.
func TotalCases(items []model.KeywordDetails) int {
	total := 0
	for _, k := range items {
		total += k.CaseCount
	}
	return total
}
