package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/nbrainlab/parcellate/pkg/markers"
	"github.com/nbrainlab/parcellate/pkg/parcellation"
	"github.com/nbrainlab/parcellate/pkg/seed"
)

// sceneFile is the YAML scene description: pre-placed markers and the
// relative-seed constraints the host would normally register.
type sceneFile struct {
	Markers     []sceneMarker     `yaml:"markers"`
	Constraints []sceneConstraint `yaml:"constraints"`
}

type sceneMarker struct {
	Name   string       `yaml:"name"`
	Type   string       `yaml:"type"` // curve | closed-curve | plane | points
	Points [][3]float64 `yaml:"points"`
	Locked bool         `yaml:"locked"`
}

type sceneConstraint struct {
	Seed   string `yaml:"seed"`
	Role   string `yaml:"role"`
	Target string `yaml:"target"`
}

func newRunCmd() *cobra.Command {
	var queryPath, scenePath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a parcellation query against a marker scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			querySource, err := os.ReadFile(queryPath)
			if err != nil {
				return fmt.Errorf("reading query: %w", err)
			}

			logic := parcellation.New(nil, logger)

			if scenePath != "" {
				if err := loadScene(logic, scenePath); err != nil {
					return fmt.Errorf("loading scene: %w", err)
				}
			}

			res := logic.LoadQuery(string(querySource))
			if !res.Success {
				return fmt.Errorf("query failed:\n%s", res.ErrorMessage())
			}

			if scenePath != "" {
				if err := applyConstraints(logic, scenePath); err != nil {
					return err
				}
			}

			printResult(cmd, logic)
			return nil
		},
	}
	cmd.Flags().StringVarP(&queryPath, "query", "q", "", "query script path (required)")
	cmd.Flags().StringVarP(&scenePath, "scene", "s", "", "marker scene YAML path")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func parseScene(path string) (*sceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scene sceneFile
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, err
	}
	return &scene, nil
}

func markerType(s string) (markers.Type, error) {
	switch s {
	case "curve":
		return markers.TypeCurve, nil
	case "closed-curve":
		return markers.TypeClosedCurve, nil
	case "plane":
		return markers.TypePlane, nil
	case "points", "":
		return markers.TypePoints, nil
	default:
		return 0, fmt.Errorf("unknown marker type %q", s)
	}
}

func loadScene(logic *parcellation.Logic, path string) error {
	scene, err := parseScene(path)
	if err != nil {
		return err
	}
	store := logic.Store()
	for _, sm := range scene.Markers {
		typ, err := markerType(sm.Type)
		if err != nil {
			return err
		}
		m := store.ResolveByName(sm.Name)
		if m == nil {
			if m, err = store.Create(sm.Name, typ); err != nil {
				return err
			}
		}
		pts := make([]v3.Vec, len(sm.Points))
		for i, p := range sm.Points {
			pts[i] = v3.Vec{X: p[0], Y: p[1], Z: p[2]}
		}
		m.SetControlPoints(pts)
		m.SetLocked(sm.Locked)
	}
	return nil
}

func applyConstraints(logic *parcellation.Logic, path string) error {
	scene, err := parseScene(path)
	if err != nil {
		return err
	}
	store := logic.Store()
	for _, c := range scene.Constraints {
		role, ok := seed.ParseRole(c.Role)
		if !ok {
			return fmt.Errorf("unknown role %q", c.Role)
		}
		seedMarker := store.ResolveByName(c.Seed)
		target := store.ResolveByName(c.Target)
		if seedMarker == nil || target == nil {
			return fmt.Errorf("constraint %s %s %s references unknown marker", c.Seed, c.Role, c.Target)
		}
		logic.AddRelativeSeed(seedMarker, target, role)
	}
	return nil
}

func printResult(cmd *cobra.Command, logic *parcellation.Logic) {
	res := logic.Result()
	logger.Info("query executed",
		zap.Int("inputs", len(res.Inputs)),
		zap.Int("parcels", len(res.Bindings)))

	for _, b := range res.Bindings {
		names := make([]string, len(b.Borders))
		for i, m := range b.Borders {
			names[i] = m.Name()
		}
		cmd.Printf("parcel %s\n", b.Parcel)
		cmd.Printf("  borders: %s\n", strings.Join(names, ", "))
		if b.Seed.NumberOfControlPoints() > 0 {
			p := b.Seed.ControlPoint(0)
			cmd.Printf("  seed:    (%.3f, %.3f, %.3f)\n", p.X, p.Y, p.Z)
		} else {
			cmd.Printf("  seed:    unplaced\n")
		}
	}
}
