package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hwae/hwae-go/internal/config"
	"github.com/hwae/hwae-go/internal/logger"
	"github.com/hwae/hwae-go/pkg/formats"
)

func TestMain(m *testing.M) {
	logger.InitWithFileConfig("error", logger.FileConfig{}, false)
	os.Exit(m.Run())
}

const testArs = `AIRS
Trigger: "BUILD_SETUP" : AIS_SPECIFICPLAYER : 0 : BOOL_AND
{
Condition: AIScript_Always
Action: AIScript_DoNothing
}
Trigger: "HWAE patrol 1" : AIS_SPECIFICPLAYER : 1 : BOOL_AND
{
Condition: AIScript_Always
Action: AIScript_DoNothing
}
Trigger: "HWAE set carrier shells" : AIS_SPECIFICPLAYER : 0 : BOOL_AND
{
Condition: AIScript_Always
Action: AIScript_DoNothing
}
`

const testMissionArs = `AIRS
Trigger: "HWAE destroy all" : AIS_SPECIFICPLAYER : 1 : BOOL_AND
{
Condition: AIScript_Always
Action: AIScript_DoNothing
}
`

const testCrateArs = `AIRS
Trigger: "HWAE_zone_specific weapon ready" : AIS_SPECIFICPLAYER : 0 : BOOL_AND
{
Condition: AIScript_Always
Action: AIScript_DoNothing
}
`

// writeTemplates synthesises a minimal template and texture tree.
func writeTemplates(t *testing.T, root string) (templates, textures string) {
	t.Helper()
	templates = filepath.Join(root, "templates")
	textures = filepath.Join(root, "textures")

	if err := formats.NewLev(64, 64).Save(templates, "large"); err != nil {
		t.Fatalf("writing template lev: %v", err)
	}
	write := func(content string, elems ...string) {
		path := filepath.Join(elems...)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating template dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
	write("[LevelName]\nplaceholder\n", templates, "large.cfg")
	write(testArs, templates, "common.ars")
	write(testMissionArs, templates, "destroy_all.ars")
	write("[existing_text]\nExisting entry\n", templates, "common.ait")
	write("sounds", templates, "common.s0u")
	write("formations", templates, "common.for")
	write(testCrateArs, templates, "zone_specific", "weapon_crate.ars")
	write("tex0.pcx\ntex1.pcx\n", textures, "alpine", "texture_description.txt")
	write("not a real image", textures, "alpine", "tex0.pcx")
	return templates, textures
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	templates, textures := writeTemplates(t, root)

	cfg := config.Default()
	cfg.Generation.Seed = 42
	cfg.Generation.LevelName = "TestLevel"
	cfg.Paths.Output = filepath.Join(root, "out")
	cfg.Paths.TemplateDir = templates
	cfg.Paths.TextureDir = textures
	return cfg
}

func TestRun_ProducesAllLevelFiles(t *testing.T) {
	cfg := testConfig(t)
	if err := New(cfg).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	levelDir := filepath.Join(cfg.Paths.Output, "TestLevel")
	for _, name := range []string{
		"TestLevel.lev",
		"TestLevel.cfg",
		"TestLevel.ob3",
		"TestLevel.ars",
		"TestLevel.pat",
		"TestLevel.ail",
		"TestLevel.s0u",
		"TestLevel.for",
		"map.pcx",
		"tex0.pcx",
	} {
		if _, err := os.Stat(filepath.Join(levelDir, name)); err != nil {
			t.Errorf("missing output file %s: %v", name, err)
		}
	}
	aitPath := filepath.Join(cfg.Paths.Output, "Text", "English", "TestLevel.ait")
	if _, err := os.Stat(aitPath); err != nil {
		t.Errorf("missing text file: %v", err)
	}
}

func TestRun_CarrierIsFirstObject(t *testing.T) {
	cfg := testConfig(t)
	if err := New(cfg).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ob3, err := formats.ParseOb3File(
		filepath.Join(cfg.Paths.Output, "TestLevel", "TestLevel.ob3"))
	if err != nil {
		t.Fatalf("parsing generated ob3: %v", err)
	}
	if len(ob3.Objects) == 0 {
		t.Fatal("no objects generated")
	}
	if got := ob3.Objects[0].ObjectType; got != "Carrier" {
		t.Errorf("first object is %q, want Carrier", got)
	}
}

func TestRun_WritesLevelConfigEntries(t *testing.T) {
	cfg := testConfig(t)
	if err := New(cfg).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	levCfg, err := formats.ParseCfgFile(
		filepath.Join(cfg.Paths.Output, "TestLevel", "TestLevel.cfg"))
	if err != nil {
		t.Fatalf("parsing generated cfg: %v", err)
	}

	cash, err := levCfg.Get("LevelCash")
	if err != nil {
		t.Fatalf("LevelCash missing: %v", err)
	}
	if len(cash) != 1 || !strings.HasSuffix(cash[0], "0") {
		// 12..31 * 250 always ends in 00 or 50
		t.Errorf("odd LevelCash value: %v", cash)
	}

	rally, err := levCfg.Get("RallyPoint")
	if err != nil {
		t.Fatalf("RallyPoint missing: %v", err)
	}
	if len(rally) != 1 || strings.Count(rally[0], ",") != 2 {
		t.Errorf("rally point is not an x,y,z triple: %v", rally)
	}

	textures, err := levCfg.Get("Land Textures")
	if err != nil {
		t.Fatalf("Land Textures missing: %v", err)
	}
	if len(textures) == 0 {
		t.Error("texture description was not copied into the config")
	}
}

func TestRun_SameSeedSameOutput(t *testing.T) {
	cfg1 := testConfig(t)
	cfg2 := testConfig(t)
	if err := New(cfg1).Run(); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := New(cfg2).Run(); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	ob1, err := formats.ParseOb3File(
		filepath.Join(cfg1.Paths.Output, "TestLevel", "TestLevel.ob3"))
	if err != nil {
		t.Fatalf("parsing first ob3: %v", err)
	}
	ob2, err := formats.ParseOb3File(
		filepath.Join(cfg2.Paths.Output, "TestLevel", "TestLevel.ob3"))
	if err != nil {
		t.Fatalf("parsing second ob3: %v", err)
	}
	if len(ob1.Objects) != len(ob2.Objects) {
		t.Fatalf("runs differ in object count: %d vs %d",
			len(ob1.Objects), len(ob2.Objects))
	}
	for i := range ob1.Objects {
		a, b := ob1.Objects[i], ob2.Objects[i]
		if a.ObjectType != b.ObjectType || a.Location != b.Location {
			t.Fatalf("object %d differs between identical seeds", i)
		}
	}
}

func TestRun_CarrierShellsAction(t *testing.T) {
	cfg := testConfig(t)
	if err := New(cfg).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	ars, err := formats.ParseArsFile(
		filepath.Join(cfg.Paths.Output, "TestLevel", "TestLevel.ars"))
	if err != nil {
		t.Fatalf("parsing generated ars: %v", err)
	}
	found := false
	for _, a := range ars.ActionsFromExistingRecord("HWAE set carrier shells") {
		if a.Type == "AIScript_SetCarrierShells" {
			found = true
		}
	}
	if !found {
		t.Error("carrier shell action missing from trigger script")
	}
}

func TestRunner_RejectsConcurrentRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	r := &Runner{run: func() error {
		started <- struct{}{}
		<-release
		return nil
	}}

	done := make(chan error, 1)
	go func() { done <- r.Run() }()
	<-started

	if err := r.Run(); err != ErrBusy {
		t.Errorf("second run returned %v, want ErrBusy", err)
	}

	release <- struct{}{}
	if err := <-done; err != nil {
		t.Errorf("first run returned %v", err)
	}

	// the guard resets once the run finishes
	go func() { <-started; release <- struct{}{} }()
	if err := r.Run(); err != nil {
		t.Errorf("run after completion returned %v", err)
	}
}
