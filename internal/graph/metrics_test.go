package graph

import (
	"reflect"
	"testing"

	apperrors "depmap/internal/errors"
)

func metricFor(t *testing.T, metrics []CouplingMetric, name string) CouplingMetric {
	t.Helper()
	for _, m := range metrics {
		if m.Unit == name {
			return m
		}
	}
	t.Fatalf("No metric for %s", name)
	return CouplingMetric{}
}

func TestMetricsValues(t *testing.T) {
	// main -> core -> utils, main -> utils
	g := Build(unitMap(
		unit("main", "core", "utils"),
		unit("core", "utils"),
		unit("utils"),
	))

	metrics, err := g.Metrics(SortName)
	if err != nil {
		t.Fatal(err)
	}

	main := metricFor(t, metrics, "main")
	if main.FanIn != 0 || main.FanOut != 2 || main.Instability != 1.0 {
		t.Errorf("main = %+v, want fan-in 0, fan-out 2, instability 1.0", main)
	}

	core := metricFor(t, metrics, "core")
	if core.FanIn != 1 || core.FanOut != 1 || core.Instability != 0.5 {
		t.Errorf("core = %+v, want fan-in 1, fan-out 1, instability 0.5", core)
	}

	utils := metricFor(t, metrics, "utils")
	if utils.FanIn != 2 || utils.FanOut != 0 || utils.Instability != 0.0 {
		t.Errorf("utils = %+v, want fan-in 2, fan-out 0, instability 0.0", utils)
	}
}

func TestMetricsIsolatedUnitHasZeroInstability(t *testing.T) {
	g := Build(unitMap(unit("lonely")))

	metrics, err := g.Metrics(SortName)
	if err != nil {
		t.Fatal(err)
	}
	if m := metricFor(t, metrics, "lonely"); m.Instability != 0.0 {
		t.Errorf("Isolated unit instability = %v, want 0.0", m.Instability)
	}
}

func TestMetricsRounding(t *testing.T) {
	// fan-in 2, fan-out 1 -> 1/3 rounded to 0.333
	g := Build(unitMap(
		unit("a", "mid"),
		unit("b", "mid"),
		unit("mid", "c"),
		unit("c"),
	))

	metrics, err := g.Metrics(SortName)
	if err != nil {
		t.Fatal(err)
	}
	if m := metricFor(t, metrics, "mid"); m.Instability != 0.333 {
		t.Errorf("mid instability = %v, want 0.333", m.Instability)
	}
}

func TestMetricsSortOrders(t *testing.T) {
	g := Build(unitMap(
		unit("main", "core", "utils"),
		unit("core", "utils"),
		unit("utils"),
	))

	byInstability, _ := g.Metrics(SortInstability)
	if byInstability[0].Unit != "main" {
		t.Errorf("Expected main first by instability, got %s", byInstability[0].Unit)
	}

	byFanIn, _ := g.Metrics(SortFanIn)
	if byFanIn[0].Unit != "utils" {
		t.Errorf("Expected utils first by fan-in, got %s", byFanIn[0].Unit)
	}

	byFanOut, _ := g.Metrics(SortFanOut)
	if byFanOut[0].Unit != "main" {
		t.Errorf("Expected main first by fan-out, got %s", byFanOut[0].Unit)
	}

	byName, _ := g.Metrics(SortName)
	if byName[0].Unit != "core" {
		t.Errorf("Expected core first by name, got %s", byName[0].Unit)
	}
}

func TestMetricsTieBreakByName(t *testing.T) {
	// Two leaves with identical coupling sort by name.
	g := Build(unitMap(
		unit("main", "zeta", "alpha"),
		unit("zeta"),
		unit("alpha"),
	))

	metrics, _ := g.Metrics(SortFanIn)
	if metrics[0].Unit != "alpha" || metrics[1].Unit != "zeta" {
		t.Errorf("Expected alpha before zeta on tie, got %s then %s", metrics[0].Unit, metrics[1].Unit)
	}
}

func TestMetricsInvalidSortKey(t *testing.T) {
	g := Build(unitMap(unit("main")))

	_, err := g.Metrics("complexity")
	if !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("Expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestOrphans(t *testing.T) {
	g := Build(unitMap(
		unit("main", "core"),
		unit("core"),
		unit("script"),
	))

	if want := []string{"main", "script"}; !reflect.DeepEqual(g.Orphans(), want) {
		t.Errorf("Orphans = %v, want %v", g.Orphans(), want)
	}
}
