package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"permafrost/models"
	"permafrost/utils"
)

// scenarioFile is the on-disk shape of one catalog entry.
type scenarioFile struct {
	SchemaVersion string          `yaml:"schema_version"`
	Scenario      models.Scenario `yaml:"scenario"`
}

// ScenarioService owns the scenario catalog. It loads YAML files from a
// configured directory at startup; with no directory configured it serves
// the built-in presets. The catalog is the primary validation layer: a file
// that fails structural validation is rejected here, before the engine ever
// sees it.
type ScenarioService struct {
	dir    string
	schema *utils.SchemaConfig

	mutex     sync.RWMutex
	scenarios map[string]models.Scenario
	order     []string
}

func NewScenarioService(dir string, schema *utils.SchemaConfig) *ScenarioService {
	return &ScenarioService{
		dir:       dir,
		schema:    schema,
		scenarios: make(map[string]models.Scenario),
	}
}

// Load populates the catalog. Preset scenarios are registered first so a
// catalog file may shadow a preset by reusing its id.
func (ss *ScenarioService) Load() error {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	ss.scenarios = make(map[string]models.Scenario)
	ss.order = nil

	for _, preset := range PresetScenarios() {
		ss.register(preset)
	}

	if ss.dir == "" {
		log.Printf("Scenario catalog: using %d built-in presets", len(ss.order))
		return nil
	}

	entries, err := os.ReadDir(ss.dir)
	if err != nil {
		return fmt.Errorf("reading scenario directory %s: %w", ss.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		scenario, err := loadScenarioFile(filepath.Join(ss.dir, name), ss.schema)
		if err != nil {
			return fmt.Errorf("scenario file %s: %w", name, err)
		}
		ss.register(scenario)
	}

	log.Printf("Scenario catalog: %d scenarios loaded (%d from %s)", len(ss.order), len(names), ss.dir)
	return nil
}

func (ss *ScenarioService) register(s models.Scenario) {
	if _, exists := ss.scenarios[s.ID]; !exists {
		ss.order = append(ss.order, s.ID)
	}
	ss.scenarios[s.ID] = s
}

// List returns the catalog in load order.
func (ss *ScenarioService) List() []models.Scenario {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()

	out := make([]models.Scenario, 0, len(ss.order))
	for _, id := range ss.order {
		out = append(out, ss.scenarios[id])
	}
	return out
}

// Get returns one scenario by id.
func (ss *ScenarioService) Get(id string) (models.Scenario, bool) {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()

	s, ok := ss.scenarios[id]
	return s, ok
}

// ParseScenario validates an ad-hoc scenario supplied in a request body.
func ParseScenario(s models.Scenario) (models.Scenario, error) {
	return models.NewScenario(s.ID, s.Name, s.BusinessUnit, s.Parameters, s.Strategies)
}

func loadScenarioFile(path string, schema *utils.SchemaConfig) (models.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Scenario{}, err
	}
	return parseScenarioYAML(data, schema)
}

func parseScenarioYAML(data []byte, schema *utils.SchemaConfig) (models.Scenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return models.Scenario{}, fmt.Errorf("parsing yaml: %w", err)
	}
	if err := utils.CheckSchemaVersion(file.SchemaVersion, schema); err != nil {
		return models.Scenario{}, err
	}

	s := file.Scenario
	return models.NewScenario(s.ID, s.Name, s.BusinessUnit, s.Parameters, s.Strategies)
}

// PresetScenarios are the built-in planning scenarios, matching the presets
// this tool has always shipped with: ransomware recovery over the public
// internet, a full region failure on a constrained link, an intra-cloud
// accidental delete, and a routine restore drill with no hard objective.
func PresetScenarios() []models.Scenario {
	ransomware, _ := models.NewScenario(
		"ransomware", "Ransomware recovery", "shared",
		models.ScenarioParameters{
			RTOMinutes:                   24 * 60,
			RPOMinutes:                   60,
			CostPerMinuteOutage:          500,
			DetectionDelayMinutes:        120,
			RegulatoryPenaltyProbability: 0.25,
			RegulatoryPenaltyAmount:      1_000_000,
			IncidentFrequencyPerYear:     0.1,
			PlanningHorizonYears:         3,
		},
		[]models.Strategy{
			{
				Name:        "glacier_internet",
				Description: "Restore from glacier over the public internet",
				Profile:     mustProfile(models.TierGlacier, models.DestinationInternet, 5000, 1000, 0.70),
			},
			{
				Name:        "deep_archive_internet",
				Description: "Restore from deep archive over the public internet",
				Profile:     mustProfile(models.TierDeepArchive, models.DestinationInternet, 5000, 1000, 0.70),
			},
		},
	)

	regionFailure, _ := models.NewScenario(
		"region_failure", "Region failure", "shared",
		models.ScenarioParameters{
			RTOMinutes:                   48 * 60,
			RPOMinutes:                   240,
			CostPerMinuteOutage:          200,
			DetectionDelayMinutes:        30,
			RegulatoryPenaltyProbability: 0.1,
			RegulatoryPenaltyAmount:      500_000,
			IncidentFrequencyPerYear:     0.05,
			PlanningHorizonYears:         5,
		},
		[]models.Strategy{
			{
				Name:        "glacier_internet",
				Description: "Cross-region restore from glacier on a constrained link",
				Profile:     mustProfile(models.TierGlacier, models.DestinationInternet, 20000, 500, 0.60),
			},
			{
				Name:        "deep_archive_internet",
				Description: "Cross-region restore from deep archive on a constrained link",
				Profile:     mustProfile(models.TierDeepArchive, models.DestinationInternet, 20000, 500, 0.60),
			},
		},
	)

	accidentalDelete, _ := models.NewScenario(
		"accidental_delete", "Accidental delete", "shared",
		models.ScenarioParameters{
			RTOMinutes:                   8 * 60,
			RPOMinutes:                   15,
			CostPerMinuteOutage:          100,
			DetectionDelayMinutes:        20,
			IncidentFrequencyPerYear:     0.5,
			PlanningHorizonYears:         3,
		},
		[]models.Strategy{
			{
				Name:        "glacier_intra",
				Description: "In-cloud restore from glacier",
				Profile:     mustProfile(models.TierGlacier, models.DestinationIntraAWS, 2000, 2000, 0.85),
			},
			{
				Name:        "deep_archive_intra",
				Description: "In-cloud restore from deep archive",
				Profile:     mustProfile(models.TierDeepArchive, models.DestinationIntraAWS, 2000, 2000, 0.85),
			},
		},
	)

	testRestore, _ := models.NewScenario(
		"test_restore", "Quarterly restore drill", "shared",
		models.ScenarioParameters{
			RTOMinutes:            0,
			DetectionDelayMinutes: 0,
			PlanningHorizonYears:  1,
		},
		[]models.Strategy{
			{
				Name:        "glacier_intra",
				Description: "Drill restore from glacier, no hard objective",
				Profile:     mustProfile(models.TierGlacier, models.DestinationIntraAWS, 1000, 500, 0.80),
			},
		},
	)

	return []models.Scenario{ransomware, regionFailure, accidentalDelete, testRestore}
}

func mustProfile(tier models.StorageTier, dest models.Destination, sizeGB, bandwidth, efficiency float64) models.RestoreProfile {
	p, err := models.NewRestoreProfile(string(tier), string(dest), sizeGB, bandwidth, efficiency)
	if err != nil {
		panic(err) // presets are compile-time constants; a bad one is a programming error
	}
	return p
}
