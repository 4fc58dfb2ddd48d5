// Command validate checks a heat-load project file before it is submitted
// to the calculation service. It runs four phases over the document:
// structure, field values, climate resolution, and the full EN 12831-1
// compilation, and reports each phase separately so defects can be fixed
// layer by layer.
//
// Site references are resolved against the built-in reference table. The
// running service may know more sites through the climate API.
//
// Usage:
//
//	go run ./cmd/validate -project data/fixtures/demo-house.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/thermaldesk/heatload-service/internal/adapter/climate"
	"github.com/thermaldesk/heatload-service/internal/domain"
	"github.com/thermaldesk/heatload-service/internal/projectfile"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// addProblems appends compiler problems that earlier phases have not already
// shown. The compiler reports every defect it sees on each run, so without
// this the same problem would appear under several phases.
func (p *phase) addProblems(seen map[string]bool, problems []string) {
	for _, msg := range problems {
		if seen[msg] {
			continue
		}
		seen[msg] = true
		p.errors = append(p.errors, msg)
	}
}

func main() {
	project := flag.String("project", "", "path to a project file (.yaml, .yml or .json)")
	flag.Parse()

	if *project == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*project); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	doc, err := projectfile.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Println("=== Heat-Load Project Validation ===")
	fmt.Println()
	fmt.Printf("Project file: %s\n", path)

	// ── Run validation phases ──
	seen := make(map[string]bool)
	structure := checkStructure(doc)
	for _, msg := range structure.errors {
		seen[msg] = true
	}
	fields := checkFields(doc, seen)
	climatePhase, record, resolved := checkClimate(doc)
	calculation, rep := checkCalculation(doc, record, resolved, seen)

	phases := []*phase{structure, fields, climatePhase, calculation}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	entities, zones, spaces, elements := countDocument(doc)
	fmt.Printf("Document: %d entities, %d zones, %d spaces, %d envelope elements\n",
		entities, zones, spaces, elements)
	if rep != nil {
		b := rep.Building
		fmt.Printf("Design heat load: %.1f W (transmission %.1f W, ventilation %.1f W, heating-up %.1f W)\n",
			b.Load, b.Transmission, b.Ventilation, b.HeatingUp)
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: structure ──

// checkStructure walks the document hierarchy and checks names, uniqueness
// and presence. The wording matches the compiler so the later phases can
// recognize problems that have already been shown.
func checkStructure(doc domain.ProjectDocument) *phase {
	p := &phase{name: "Structure (hierarchy and naming)"}

	if strings.TrimSpace(doc.Name) == "" {
		p.errorf("project name is required")
	}
	if doc.Climate == nil && doc.Site == "" {
		p.errorf("project needs embedded climate data or a site reference")
	}
	if len(doc.Building.Entities) == 0 {
		p.errorf("building has no entities")
	}
	seen := make(map[string]bool)
	for i, ent := range doc.Building.Entities {
		if ent.Name == "" {
			p.errorf("building: entity %d has no name", i+1)
		} else if seen[ent.Name] {
			p.errorf("building: duplicate entity name %q", ent.Name)
		}
		seen[ent.Name] = true
		checkEntityStructure(p, ent)
	}
	return p
}

func checkEntityStructure(p *phase, ent domain.EntityDocument) {
	path := fmt.Sprintf("entity %q", ent.Name)
	if len(ent.Zones) == 0 {
		p.errorf("%s: no ventilation zones", path)
	}
	seen := make(map[string]bool)
	for i, zone := range ent.Zones {
		if zone.Name == "" {
			p.errorf("%s: zone %d has no name", path, i+1)
		} else if seen[zone.Name] {
			p.errorf("%s: duplicate zone name %q", path, zone.Name)
		}
		seen[zone.Name] = true
		checkZoneStructure(p, zone, path)
	}
}

func checkZoneStructure(p *phase, zone domain.ZoneDocument, parent string) {
	path := fmt.Sprintf("%s: zone %q", parent, zone.Name)
	if zone.BlowerDoor != nil && zone.Permeability50.IsSet() {
		p.errorf("%s: q_env_50 and blower_door are mutually exclusive", path)
	}
	if len(zone.Spaces) == 0 {
		p.errorf("%s: no heated spaces", path)
	}
	seen := make(map[string]bool)
	for i, space := range zone.Spaces {
		if space.Name == "" {
			p.errorf("%s: space %d has no name", path, i+1)
		} else if seen[space.Name] {
			p.errorf("%s: duplicate space name %q", path, space.Name)
		}
		seen[space.Name] = true
	}
}

// ── Phase 2: field values ──

// checkFields runs the climate-free document validation and reports what
// the structure phase has not already covered: missing required quantities,
// unknown units, out-of-range values and unknown element categories.
func checkFields(doc domain.ProjectDocument, seen map[string]bool) *phase {
	p := &phase{name: "Field values (units, ranges, categories)"}

	err := domain.ValidateProjectDocument(doc)
	if err == nil {
		return p
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		p.addProblems(seen, verr.Problems)
		return p
	}
	p.errorf("%v", err)
	return p
}

// ── Phase 3: climate ──

func checkClimate(doc domain.ProjectDocument) (*phase, domain.ClimateRecord, bool) {
	p := &phase{name: "Climate (embedded data or site reference)"}

	if doc.Climate == nil && doc.Site == "" {
		p.errorf("no embedded climate data and no site reference")
		return p, domain.ClimateRecord{}, false
	}

	if doc.Climate != nil {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		rec, err := domain.ResolveClimate(context.Background(), doc, nil, logger)
		if err != nil {
			p.errorf("embedded climate data is incomplete: %v", err)
			return p, domain.ClimateRecord{}, false
		}
		return p, rec, true
	}

	rec, err := climate.StaticResolver{}.ResolveSite(context.Background(), doc.Site)
	if err != nil {
		p.errorf("site %q is not in the built-in reference table (known: %s)",
			doc.Site, strings.Join(siteNames(), ", "))
		return p, domain.ClimateRecord{}, false
	}
	return p, rec, true
}

func siteNames() []string {
	records := climate.Sites()
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Site)
	}
	return names
}

// ── Phase 4: calculation ──

// checkCalculation compiles the building against the resolved climate and
// assembles the load report. The climate-dependent checks, such as design
// temperatures against the external design temperature, only run here.
func checkCalculation(doc domain.ProjectDocument, record domain.ClimateRecord, resolved bool, seen map[string]bool) (*phase, *domain.LoadReport) {
	p := &phase{name: "Calculation (EN 12831-1 heat load)"}

	if !resolved {
		p.errorf("not run: climate could not be resolved")
		return p, nil
	}

	b, err := domain.CompileBuilding(doc, record)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			p.addProblems(seen, verr.Problems)
			if p.passed() {
				p.errorf("not run: document defects reported above")
			}
		} else {
			p.errorf("%v", err)
		}
		return p, nil
	}

	rep := domain.BuildLoadReport(doc.Name, b)
	return p, &rep
}

// ── Helpers ──

func countDocument(doc domain.ProjectDocument) (entities, zones, spaces, elements int) {
	entities = len(doc.Building.Entities)
	for _, ent := range doc.Building.Entities {
		zones += len(ent.Zones)
		for _, zone := range ent.Zones {
			spaces += len(zone.Spaces)
			for _, space := range zone.Spaces {
				elements += len(space.Elements)
			}
		}
	}
	return entities, zones, spaces, elements
}
