// Command simstat loads a scene description and runs it through
// dynamics.World.Step, printing per-step statistics as JSON. It is the
// generalized, JSON-driven descendant of the prior eg command: one
// binary, many scenes, selected by flag instead of by tag string.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gerich-home/box2d/dynamics"
	"github.com/gerich-home/box2d/math/geom"
)

// sceneBody is the JSON shape of one body in a scene file.
type sceneBody struct {
	Kind     string  `json:"kind"` // "static", "kinematic", "dynamic"
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle"`
	Shape    string  `json:"shape"` // "circle" or "box"
	Radius   float64 `json:"radius"`
	HX       float64 `json:"hx"`
	HY       float64 `json:"hy"`
	Density  float64 `json:"density"`
	Friction float64 `json:"friction"`
}

// sceneJoint couples two bodies by index, named the way the scene
// references them ("distance" or "revolute" — the two kinds a simstat
// scene can exercise without per-kind tuning knobs).
type sceneJoint struct {
	Kind string `json:"kind"`
	A    int     `json:"a"`
	B    int     `json:"b"`
	X    float64 `json:"anchor_x"`
	Y    float64 `json:"anchor_y"`
}

type scene struct {
	Gravity struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"gravity"`
	Bodies []sceneBody  `json:"bodies"`
	Joints []sceneJoint `json:"joints"`
}

type stepReport struct {
	Step  int               `json:"step"`
	Stats dynamics.StepStats `json:"stats"`
}

type finalBody struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

type report struct {
	WorldID string       `json:"world_id"`
	Steps   []stepReport `json:"steps"`
	Bodies  []finalBody  `json:"bodies"`
}

func main() {
	scenePath := flag.String("scene", "", "path to a scene JSON file (required)")
	steps := flag.Int("steps", 60, "number of steps to run")
	dt := flag.Float64("dt", 1.0/60.0, "seconds per step")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "usage: simstat -scene <file.json> [-steps N] [-dt seconds]")
		os.Exit(2)
	}

	sc, err := loadScene(*scenePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "simstat:", err)
		os.Exit(1)
	}

	w, bodies, err := buildWorld(sc)
	if err != nil {
		fmt.Fprintln(os.Stderr, "simstat:", err)
		os.Exit(1)
	}

	conf := dynamics.DefaultStepConf()
	conf.Dt = *dt

	rep := report{WorldID: w.ID().String()}
	for i := 0; i < *steps; i++ {
		stats := w.Step(conf)
		rep.Steps = append(rep.Steps, stepReport{Step: i, Stats: stats})
	}

	for i, b := range bodies {
		pos := b.Position()
		rep.Bodies = append(rep.Bodies, finalBody{Index: i, X: pos.X, Y: pos.Y, Angle: b.Angle()})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		fmt.Fprintln(os.Stderr, "simstat:", err)
		os.Exit(1)
	}
}

func loadScene(path string) (*scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &sc, nil
}

func bodyKind(s string) dynamics.BodyKind {
	switch s {
	case "static":
		return dynamics.StaticBody
	case "kinematic":
		return dynamics.KinematicBody
	default:
		return dynamics.DynamicBody
	}
}

func buildWorld(sc *scene) (*dynamics.World, []*dynamics.Body, error) {
	def := dynamics.DefaultDef()
	def.Gravity = geom.NewVec2(sc.Gravity.X, sc.Gravity.Y)
	w := dynamics.NewWorld(def)

	bodies := make([]*dynamics.Body, 0, len(sc.Bodies))
	for _, sb := range sc.Bodies {
		bdef := dynamics.DefaultBodyDef()
		bdef.Kind = bodyKind(sb.Kind)
		bdef.Position = geom.NewVec2(sb.X, sb.Y)
		bdef.Angle = sb.Angle

		b, err := w.CreateBody(bdef)
		if err != nil {
			return nil, nil, err
		}

		var shape dynamics.Shape
		switch sb.Shape {
		case "circle":
			r := sb.Radius
			if r == 0 {
				r = 0.5
			}
			shape = &dynamics.Circle{Radius: r}
		default:
			hx, hy := sb.HX, sb.HY
			if hx == 0 {
				hx = 0.5
			}
			if hy == 0 {
				hy = 0.5
			}
			shape = dynamics.NewBoxPolygon(hx, hy)
		}

		fdef := dynamics.DefaultFixtureDef(shape)
		fdef.Density = sb.Density
		if sb.Friction != 0 {
			fdef.Friction = sb.Friction
		}
		if bdef.Kind != dynamics.StaticBody && fdef.Density == 0 {
			fdef.Density = 1
		}

		if _, err := b.CreateFixture(fdef); err != nil {
			return nil, nil, err
		}
		bodies = append(bodies, b)
	}

	for _, sj := range sc.Joints {
		if sj.A < 0 || sj.A >= len(bodies) || sj.B < 0 || sj.B >= len(bodies) {
			return nil, nil, fmt.Errorf("joint references out-of-range body index")
		}
		anchor := geom.NewVec2(sj.X, sj.Y)
		var j dynamics.Joint
		switch sj.Kind {
		case "revolute":
			jd := dynamics.NewRevoluteJointDef(bodies[sj.A], bodies[sj.B], anchor)
			j = dynamics.NewRevoluteJoint(jd)
		default:
			jd := dynamics.NewDistanceJointDef(bodies[sj.A], bodies[sj.B], anchor, anchor)
			j = dynamics.NewDistanceJoint(jd)
		}
		if err := w.CreateJoint(j); err != nil {
			return nil, nil, err
		}
	}

	return w, bodies, nil
}
