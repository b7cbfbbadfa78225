package server

import (
	"errors"
	"net/http"
	"net/url"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
	"github.com/mohamed3ma/helios/pkg/geometry"
)

// InspectResponse represents the JSON response for point inspection
type InspectResponse struct {
	Found     bool        `json:"found"`
	Point     [3]float64  `json:"point"`
	Path      []string    `json:"path"`                // Universe ids from the base down
	Cell      string      `json:"cell,omitempty"`      // Leaf cell containing the point
	Container string      `json:"container,omitempty"` // Cell filled by the innermost universe
	Bounds    []BoundInfo `json:"bounds,omitempty"`
	Ray       *RayInfo    `json:"ray,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// BoundInfo describes one bounding surface of the located cell
type BoundInfo struct {
	Surface      string    `json:"surface"`
	Sense        string    `json:"sense"`
	Family       string    `json:"family"`
	Coefficients []float64 `json:"coefficients"`
	Boundary     string    `json:"boundary"`
	Value        float64   `json:"value"` // Surface function at the point
}

// RayInfo describes the next crossing along the requested direction
type RayInfo struct {
	Direction [3]float64 `json:"direction"`
	Distance  float64    `json:"distance,omitempty"`
	Surface   string     `json:"surface,omitempty"`
	Normal    [3]float64 `json:"normal"`
	Next      string     `json:"next,omitempty"` // Cell entered across the surface
	Escaped   bool       `json:"escaped"`
}

func toArray(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect locates a point and optionally follows a ray from it
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	sceneObj, err := s.loadScene(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	point, err := parseVec(values, "x", "y", "z")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := sceneObj.Build(nil)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	response := inspectPoint(g, point)
	if response.Found && values.Get("dx") != "" {
		dir, err := parseVec(values, "dx", "dy", "dz")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if r3.Norm(dir) == 0 {
			writeError(w, http.StatusBadRequest, "direction cannot be zero")
			return
		}
		cell, _ := g.Locate(point)
		response.Ray = followRay(g, cell.Cell, point, core.Unit(dir))
	}

	writeJSON(w, http.StatusOK, response)
}

func inspectPoint(g *geometry.Geometry, point r3.Vec) InspectResponse {
	response := InspectResponse{Point: toArray(point)}

	loc, err := g.Locate(point)
	for _, u := range loc.Path {
		response.Path = append(response.Path, string(u.ID()))
	}
	if err != nil {
		response.Error = err.Error()
		return response
	}

	response.Found = true
	response.Cell = string(loc.Cell.ID())
	if filled := g.FilledCell(g.Parent(loc.Cell)); filled != nil {
		response.Container = string(filled.ID())
	}
	for _, b := range loc.Cell.Bounds() {
		response.Bounds = append(response.Bounds, BoundInfo{
			Surface:      string(b.Surface.ID()),
			Sense:        b.Sense.String(),
			Family:       string(b.Surface.Family()),
			Coefficients: b.Surface.Coefficients(),
			Boundary:     b.Surface.Boundary().String(),
			Value:        b.Surface.Function(point),
		})
	}
	return response
}

func followRay(g *geometry.Geometry, cell *geometry.Cell, pos, dir r3.Vec) *RayInfo {
	info := &RayInfo{Direction: toArray(dir)}

	distance, surface, err := g.CrossingDistance(cell, pos, dir)
	if errors.Is(err, geometry.ErrEscape) {
		info.Escaped = true
		return info
	}

	hit := core.NewRay(pos, dir).At(distance)
	info.Distance = distance
	info.Surface = string(surface.ID())
	info.Normal = toArray(surface.Normal(hit))

	if surface.Boundary() != geometry.Transmitting {
		return info
	}
	next, err := g.NeighborAcross(surface, cell, hit)
	switch {
	case errors.Is(err, geometry.ErrEscape):
		info.Escaped = true
	case err == nil:
		info.Next = string(next.ID())
	}
	return info
}

func parseVec(values url.Values, x, y, z string) (r3.Vec, error) {
	var xyz [3]float64
	for i, key := range []string{x, y, z} {
		f, err := parseFloatParam(values, key)
		if err != nil {
			return r3.Vec{}, err
		}
		xyz[i] = f
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}
