package railway

import "github.com/azybler/openrailsim/pkg/geo"

// pointsInFront enumerates Path's vertices after current, up to and
// including directionEndpoint, in the order they are encountered walking
// toward directionEndpoint.
func (e Edge) pointsInFront(current, directionEndpoint geo.Coord) geo.Polyline {
	return geo.PointsInFront(e.Path, current, directionEndpoint)
}

// DistanceToEnd sums the Haversine distance from current to the next
// polyline vertex in the direction of directionEndpoint, then between
// successive vertices, terminating at directionEndpoint. If no vertex
// lies strictly in front of current, the result is 0.
func (e Edge) DistanceToEnd(current, directionEndpoint geo.Coord) float64 {
	ahead := e.pointsInFront(current, directionEndpoint)
	if len(ahead) == 0 {
		return 0
	}

	total := geo.Dist(current, ahead[0])
	for i := 0; i+1 < len(ahead); i++ {
		total += geo.Dist(ahead[i], ahead[i+1])
	}
	return total
}

// PositionOnEdge advances along the polyline from current toward
// directionEndpoint by distance meters, interpolating linearly in lat/lon
// across the segment the advance lands in. If distance meets or exceeds
// the remaining length, directionEndpoint is returned.
func (e Edge) PositionOnEdge(current geo.Coord, distance float64, directionEndpoint geo.Coord) geo.Coord {
	if distance <= 0 {
		return current
	}

	ahead := e.pointsInFront(current, directionEndpoint)
	if len(ahead) == 0 {
		return directionEndpoint
	}

	prev := current
	remaining := distance
	for _, v := range ahead {
		segLen := geo.Dist(prev, v)
		if segLen == 0 {
			prev = v
			continue
		}
		if remaining < segLen {
			ratio := remaining / segLen
			return geo.Coord{
				Lat: prev.Lat + ratio*(v.Lat-prev.Lat),
				Lon: prev.Lon + ratio*(v.Lon-prev.Lon),
			}
		}
		remaining -= segLen
		prev = v
	}

	return directionEndpoint
}
