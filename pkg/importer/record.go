// Package importer assembles a railway.Graph from a stream of tagged
// OpenStreetMap-style node and way records.
package importer

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/osm"
)

// Coordinate mirrors the {lat, lon} shape used by both node and way
// geometry fields in the Overpass-style input format.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// element is the raw shape of one entry in the input "elements" array.
// Node and way records share this struct; which fields are populated
// depends on Type.
type element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Lat      *float64          `json:"lat,omitempty"`
	Lon      *float64          `json:"lon,omitempty"`
	Nodes    []int64           `json:"nodes,omitempty"`
	Geometry []Coordinate      `json:"geometry,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// Document is the top-level shape of the importer's input: a record
// stream of the form {"elements": [...]}.
type Document struct {
	Elements []element `json:"elements"`
}

// ParseDocument decodes an Overpass-style JSON record stream.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("importer: decode document: %w", err)
	}
	return doc, nil
}

// tagsOf wraps a raw tag map as osm.Tags so filtering can reuse the
// teacher's tags.Find idiom instead of hand-rolled map lookups.
func tagsOf(e element) osm.Tags {
	if len(e.Tags) == 0 {
		return nil
	}
	t := make(osm.Tags, 0, len(e.Tags))
	for k, v := range e.Tags {
		t = append(t, osm.Tag{Key: k, Value: v})
	}
	return t
}

// nodeKinds are the railway node tag values the importer accepts, per
// the input filter rule (switch, buffer_stop, railway_crossing).
var nodeKinds = map[string]bool{
	"switch":           true,
	"buffer_stop":      true,
	"railway_crossing": true,
}

func isRailwayNode(e element) bool {
	return nodeKinds[tagsOf(e).Find("railway")]
}

func isRailwayWay(e element) bool {
	return tagsOf(e).Find("railway") == "rail"
}
