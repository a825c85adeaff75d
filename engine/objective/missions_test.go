package objective

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/meekantifun/naval-command-sub002/engine/coord"
	"github.com/meekantifun/naval-command-sub002/engine/grid"
	"github.com/meekantifun/naval-command-sub002/types"
)

// fixedRand returns the same value for every draw, clamped to the range.
type fixedRand int

func (f fixedRand) Intn(n int) int            { return min(int(f), n-1) }
func (f fixedRand) WeightedSelect(w []int) int { return min(int(f), len(w)-1) }

func fixedEnv(v int) *Env {
	return &Env{Rand: fixedRand(v), Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func fillGrid(g *grid.Grid, kind grid.TerrainKind) {
	for row := 1; row <= g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			g.SetKind(coord.C(col, row), kind)
		}
	}
}

func countContaining(msgs []string, sub string) int {
	n := 0
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			n++
		}
	}
	return n
}

// --- resource_acquisition ---

func TestResourceAcquisition_FreshGrid(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, ResourceAcquisition, w, testEnv(11, 0))
	s := inst.(*ResourceAcquisitionState)

	zones := w.Grid.Cells(grid.ResourceZone)
	if len(zones) != 1 || zones[0] != s.ResourceZone {
		t.Fatalf("resource_zone cells = %v, want exactly [%v]", zones, s.ResourceZone)
	}
	radius := w.Grid.Cells(grid.ResourceRadius)
	if len(radius) == 0 {
		t.Fatal("no resource_radius cells carved")
	}
	for _, c := range radius {
		if coord.Distance(c, s.ResourceZone) > ResourceRadius {
			t.Errorf("resource_radius cell %v is %.2f from zone", c, coord.Distance(c, s.ResourceZone))
		}
	}
	if n := w.Grid.Count(grid.Island); n != 5 {
		t.Errorf("island cells = %d, want one carved cross", n)
	}
	if coord.Distance(s.ResourceZone, s.Island) > 2 {
		t.Errorf("zone %v not beside island %v", s.ResourceZone, s.Island)
	}

	for _, id := range []string{"p1", "p2", "p3"} {
		addShip(w.Players, id, "Destroyer", s.ResourceZone)
	}
	msgs := process(def, w, inst)
	if s.TurnsProgress != 3 {
		t.Fatalf("TurnsProgress = %d after one turn with 3 ships, want 3", s.TurnsProgress)
	}
	if len(msgs) != 1 {
		t.Errorf("messages = %v", msgs)
	}
}

func TestResourceAcquisition_ReusesIsland(t *testing.T) {
	w := newWorld(75, 75)
	center := coord.MustParse("T15")
	for _, c := range grid.CrossCells(center) {
		w.Grid.SetKind(c, grid.Island)
	}
	_, inst := setup(t, ResourceAcquisition, w, testEnv(1, 0))
	s := inst.(*ResourceAcquisitionState)
	if s.Island != center {
		t.Fatalf("Island = %v, want existing %v", s.Island, center)
	}
	if want := coord.MustParse("T13"); s.ResourceZone != want {
		t.Fatalf("ResourceZone = %v, want %v (ocean north of the north arm)", s.ResourceZone, want)
	}
	if n := w.Grid.Count(grid.Island); n != 5 {
		t.Errorf("island cells = %d, no new island should be carved", n)
	}
}

func TestResourceAcquisition_ProgressCapAndCheck(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, ResourceAcquisition, w, testEnv(4, 0))
	s := inst.(*ResourceAcquisitionState)

	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		addShip(w.Players, id, "Destroyer", s.ResourceZone)
	}
	sunk := addShip(w.Players, "p6", "Destroyer", s.ResourceZone)
	sunk.Alive = false
	addShip(w.Players, "far", "Destroyer", coord.C(s.ResourceZone.Col, s.ResourceZone.Row+20))

	prev := 0
	for turn := 1; turn <= 3; turn++ {
		process(def, w, inst)
		if s.TurnsProgress != prev+ResourceMaxPerTurn {
			t.Fatalf("turn %d: progress %d, want %d", turn, s.TurnsProgress, prev+ResourceMaxPerTurn)
		}
		prev = s.TurnsProgress
		if got, want := def.Check(w, inst), s.TurnsProgress >= s.TurnsRequired; got != want {
			t.Fatalf("turn %d: Check = %v at progress %d", turn, got, s.TurnsProgress)
		}
	}

	for _, p := range w.Players {
		p.Alive = false
	}
	if msgs := process(def, w, inst); msgs != nil || s.TurnsProgress != prev {
		t.Fatalf("empty zone changed progress to %d (msgs %v)", s.TurnsProgress, msgs)
	}
}

// --- convoy_escort ---

func TestRequiredDeliveries(t *testing.T) {
	for n, want := range map[int]int{3: 2, 4: 3, 5: 3, 10: 6} {
		if got := RequiredDeliveries(n); got != want {
			t.Errorf("RequiredDeliveries(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestConvoyEscort_FiveShips(t *testing.T) {
	w := newWorld(75, 75)
	addShip(w.Players, "p1", "Destroyer", coord.C(37, 70))
	addShip(w.Players, "p2", "Cruiser", coord.C(40, 70))

	_, inst := setup(t, ConvoyEscort, w, fixedEnv(2))
	s := inst.(*ConvoyEscortState)
	if len(s.Ships) != 5 {
		t.Fatalf("ships = %d, want 5", len(s.Ships))
	}
	if s.RequiredDeliveries != 3 {
		t.Fatalf("RequiredDeliveries = %d, want 3", s.RequiredDeliveries)
	}
	if s.FollowTarget != "p2" {
		t.Errorf("FollowTarget = %q, want p2", s.FollowTarget)
	}
}

func TestConvoyEscort_Setup(t *testing.T) {
	w := newWorld(75, 75)
	addShip(w.Players, "p1", "Destroyer", coord.C(37, 70))

	_, inst := setup(t, ConvoyEscort, w, testEnv(21, 0))
	s := inst.(*ConvoyEscortState)

	if n := len(s.Ships); n < EscortMinShips || n > EscortMaxShips {
		t.Fatalf("ships = %d", n)
	}
	if s.RequiredDeliveries != RequiredDeliveries(len(s.Ships)) {
		t.Errorf("RequiredDeliveries = %d for %d ships", s.RequiredDeliveries, len(s.Ships))
	}
	if s.FollowTarget != "p1" {
		t.Errorf("FollowTarget = %q", s.FollowTarget)
	}
	if s.Destination.Row != 1+EscortEdgeOffset {
		t.Errorf("destination %v should sit on the north side, away from the fleet", s.Destination)
	}
	dest := w.Grid.Cells(grid.DestinationZone)
	if len(dest) == 0 {
		t.Fatal("no destination_zone cells")
	}
	for _, c := range dest {
		if coord.Distance(c, s.Destination) > EscortDestinationRadius {
			t.Errorf("destination cell %v outside radius", c)
		}
	}
	seen := map[coord.Coord]bool{}
	for _, ship := range s.Ships {
		if ship.Faction != types.FactionConvoy || !ship.Alive || ship.Health != EscortShipHealth {
			t.Errorf("bad convoy ship %+v", ship.Ship)
		}
		if ship.Destination != s.Destination {
			t.Errorf("%s destination %v, want %v", ship.ID, ship.Destination, s.Destination)
		}
		if seen[ship.Position] {
			t.Errorf("two convoy ships at %v", ship.Position)
		}
		seen[ship.Position] = true
		if ship.Position.Row != 75-EdgeInset {
			t.Errorf("%s at %v, want the southern lane", ship.ID, ship.Position)
		}
	}
}

func TestConvoyEscort_DestinationOverReef(t *testing.T) {
	w := newWorld(40, 40)
	fillGrid(w.Grid, grid.Reef)
	_, inst := setup(t, ConvoyEscort, w, testEnv(2, 0))
	s := inst.(*ConvoyEscortState)
	if w.Grid.Get(s.Destination).Kind != grid.DestinationZone {
		t.Fatalf("reef destination centre not marked: %+v", w.Grid.Get(s.Destination))
	}
	if got := w.Grid.Get(s.Destination).OriginalKind; got != grid.Reef {
		t.Fatalf("OriginalKind = %s, want reef", got)
	}
}

func TestConvoyEscort_UsesSpawner(t *testing.T) {
	w := newWorld(75, 75)
	addShip(w.Players, "p1", "Destroyer", coord.C(37, 5))
	sp := &fixedSpawner{cells: []coord.Coord{coord.C(10, 3), coord.C(11, 3), coord.C(12, 3), coord.C(13, 3), coord.C(14, 3)}}
	env := fixedEnv(0)
	env.Spawner = sp

	_, inst := setup(t, ConvoyEscort, w, env)
	s := inst.(*ConvoyEscortState)
	if len(s.Ships) != 3 {
		t.Fatalf("ships = %d, want 3", len(s.Ships))
	}
	for i, ship := range s.Ships {
		if want := coord.C(10+i, 3); ship.Position != want {
			t.Errorf("ship %d at %v, want %v", i, ship.Position, want)
		}
	}
	for _, z := range sp.zones {
		if z != ZoneNorth {
			t.Errorf("spawn zone = %s, want north for a fleet in the north", z)
		}
	}
	if s.Destination.Row != 75-EscortEdgeOffset {
		t.Errorf("destination %v should be in the south", s.Destination)
	}
}

func TestConvoyEscort_DeliveriesAndFailure(t *testing.T) {
	w := newWorld(75, 75)
	addShip(w.Players, "p1", "Destroyer", coord.C(37, 70))
	def, inst := setup(t, ConvoyEscort, w, fixedEnv(2))
	s := inst.(*ConvoyEscortState)

	s.Ships[0].Position = s.Destination
	if msgs := RecordDeliveries(w, s); len(msgs) != 1 || s.ShipsDelivered != 1 {
		t.Fatalf("first delivery: msgs %v, delivered %d", msgs, s.ShipsDelivered)
	}
	if msgs := RecordDeliveries(w, s); len(msgs) != 0 || s.ShipsDelivered != 1 {
		t.Fatalf("delivery counted twice: %v", msgs)
	}
	s.Ships[1].Position = s.Destination
	s.Ships[1].Alive = false
	RecordDeliveries(w, s)
	if s.ShipsDelivered != 1 || s.Ships[1].Delivered {
		t.Fatal("sunk ship must not be delivered")
	}
	if def.Check(w, inst) {
		t.Fatal("1 of 3 delivered should not win")
	}

	// 1 delivered, 3 afloat: still possible.
	if msgs := process(def, w, inst); msgs != nil {
		t.Fatalf("unexpected fail message %v", msgs)
	}
	s.Ships[2].Health = 0
	// 1 delivered, 2 afloat: still exactly possible.
	if process(def, w, inst); s.Failed() {
		t.Fatal("mission failed while the quota was still reachable")
	}
	s.Ships[3].Alive = false
	msgs := process(def, w, inst)
	if !s.Failed() || len(msgs) != 1 {
		t.Fatalf("Failed = %v msgs = %v, want latched failure", s.Failed(), msgs)
	}
	if msgs := process(def, w, inst); msgs != nil {
		t.Fatalf("failure announced twice: %v", msgs)
	}
}

func TestConvoyEscort_Victory(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, ConvoyEscort, w, fixedEnv(0))
	s := inst.(*ConvoyEscortState)
	for _, ship := range s.Ships[:s.RequiredDeliveries] {
		ship.Position = coord.C(s.Destination.Col+3, s.Destination.Row)
	}
	RecordDeliveries(w, s)
	if !def.Check(w, inst) {
		t.Fatalf("delivered %d/%d should win", s.ShipsDelivered, s.RequiredDeliveries)
	}
}

// --- capture_outpost ---

func TestCaptureOutpost(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, CaptureOutpost, w, testEnv(8, 0))
	s := inst.(*CaptureOutpostState)

	cell := w.Grid.Get(s.Outpost)
	if cell.Kind != grid.Outpost || cell.OriginalKind != grid.Island {
		t.Fatalf("outpost cell = %+v", cell)
	}
	if s.Health != OutpostHealth {
		t.Fatalf("Health = %d", s.Health)
	}
	addShip(w.Players, "p1", "Destroyer", coord.C(s.Outpost.Col+2, s.Outpost.Row))

	if msgs := process(def, w, inst); msgs != nil || s.CaptureProgress != 0 {
		t.Fatal("capture must not start before the outpost is destroyed")
	}
	if s.DamageOutpost(-50) != OutpostHealth {
		t.Fatal("negative damage should be ignored")
	}
	if left := s.DamageOutpost(2000); left != 0 {
		t.Fatalf("DamageOutpost left %d, want 0", left)
	}

	var all []string
	msgs := process(def, w, inst)
	all = append(all, msgs...)
	if !s.Destroyed || s.CaptureProgress != 0 {
		t.Fatalf("destruction turn: destroyed=%v progress=%d", s.Destroyed, s.CaptureProgress)
	}
	for turn := 0; turn < OutpostCaptureRequired; turn++ {
		if def.Check(w, inst) {
			t.Fatalf("won early at progress %d", s.CaptureProgress)
		}
		all = append(all, process(def, w, inst)...)
	}
	if !def.Check(w, inst) {
		t.Fatalf("progress %d/%d should win", s.CaptureProgress, s.CaptureRequired)
	}
	if n := countContaining(all, "destroyed"); n != 1 {
		t.Fatalf("destruction announced %d times", n)
	}
	process(def, w, inst)
	if s.CaptureProgress != s.CaptureRequired {
		t.Errorf("progress kept climbing to %d", s.CaptureProgress)
	}
}

func TestCaptureOutpost_ReusesIsland(t *testing.T) {
	w := newWorld(75, 75)
	center := coord.MustParse("AB40")
	for _, c := range grid.CrossCells(center) {
		w.Grid.SetKind(c, grid.Island)
	}
	_, inst := setup(t, CaptureOutpost, w, testEnv(8, 0))
	if got := inst.(*CaptureOutpostState).Outpost; got != center {
		t.Fatalf("Outpost = %v, want %v", got, center)
	}
}

// --- defeat_boss ---

func TestDefeatBoss_PromotesBattleship(t *testing.T) {
	w := newWorld(75, 75)
	d := addShip(w.Enemies, "e1", "Destroyer", coord.C(10, 10))
	b := addShip(w.Enemies, "e2", "Battleship", coord.C(20, 10))

	res, err := DefaultCatalog()[DefeatBoss].Setup(w, fixedEnv(0))
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	s := res.Instance.(*DefeatBossState)
	if s.BossID != "e2" || !s.Promoted {
		t.Fatalf("boss = %q promoted=%v, want e2 promoted", s.BossID, s.Promoted)
	}
	if !b.Boss || b.Name != "Abyssal Dreadnought" || b.Health != 6000 || b.MaxHealth != 6000 {
		t.Fatalf("promoted ship = %+v", b)
	}
	if d.Boss || d.Health != 1000 {
		t.Fatalf("destroyer touched: %+v", d)
	}
	if len(w.Enemies) != 2 {
		t.Fatalf("enemies = %d, promotion must not spawn", len(w.Enemies))
	}
	if len(res.Archetypes) != 3 {
		t.Errorf("archetypes = %d", len(res.Archetypes))
	}
}

func TestPickBossCandidate(t *testing.T) {
	mk := func(id, class string) *types.Ship { return &types.Ship{ID: id, Class: class} }
	tests := []struct {
		name string
		in   []*types.Ship
		want string
	}{
		{"carrier over cruiser", []*types.Ship{mk("a", "Heavy Cruiser"), mk("b", "Light Carrier")}, "b"},
		{"case insensitive", []*types.Ship{mk("a", "Destroyer"), mk("b", "SUBMARINE"), mk("c", "fast battleship")}, "c"},
		{"first of equal class", []*types.Ship{mk("a", "Destroyer"), mk("b", "Destroyer")}, "a"},
		{"no match falls back to first", []*types.Ship{mk("a", "Frigate"), mk("b", "Corvette")}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickBossCandidate(tt.in); got.ID != tt.want {
				t.Fatalf("picked %s, want %s", got.ID, tt.want)
			}
		})
	}
	if pickBossCandidate(nil) != nil {
		t.Fatal("empty candidates should give nil")
	}
}

func TestDefeatBoss_SkipsOPFORAndLatches(t *testing.T) {
	w := newWorld(75, 75)
	opfor := addShip(w.Enemies, "e1", "Battleship", coord.C(10, 10))
	opfor.OPFOR = true
	addShip(w.Enemies, "e2", "Destroyer", coord.C(20, 10))

	env := fixedEnv(1)
	_, inst := setup(t, DefeatBoss, w, env)
	s := inst.(*DefeatBossState)
	if s.BossID != "e2" || opfor.Boss {
		t.Fatalf("boss = %s, OPFOR ship must never be promoted", s.BossID)
	}
	w.Enemies["e2"].Health = 1234

	_, again := setup(t, DefeatBoss, w, env)
	if again.(*DefeatBossState).BossID != "e2" || w.Enemies["e2"].Health != 1234 || len(w.Enemies) != 2 {
		t.Fatal("second setup must reuse the existing boss untouched")
	}
}

func TestDefeatBoss_SpawnsWhenNoCandidate(t *testing.T) {
	w := newWorld(75, 75)
	opfor := addShip(w.Enemies, "boss", "Battleship", coord.C(10, 10))
	opfor.OPFOR = true
	sp := &fixedSpawner{cells: []coord.Coord{coord.C(30, 4)}}
	env := fixedEnv(1)
	env.Spawner = sp

	_, inst := setup(t, DefeatBoss, w, env)
	s := inst.(*DefeatBossState)
	if s.Promoted || s.BossID != "boss-2" {
		t.Fatalf("BossID = %q promoted=%v, want spawned boss-2", s.BossID, s.Promoted)
	}
	boss := w.Enemies[s.BossID]
	if boss == nil || boss.Name != "Storm Carrier" || boss.Position != coord.C(30, 4) || !boss.Boss {
		t.Fatalf("spawned boss = %+v", boss)
	}
	if len(sp.zones) != 1 || sp.zones[0] != ZoneEnemySide {
		t.Fatalf("spawn zones = %v", sp.zones)
	}
}

func TestDefeatBoss_HarborPrincessOnIsland(t *testing.T) {
	w := newWorld(75, 75)
	addShip(w.Enemies, "e1", "Cruiser", coord.C(10, 10))
	_, inst := setup(t, DefeatBoss, w, fixedEnv(2))
	boss := w.Enemies[inst.(*DefeatBossState).BossID]
	if boss.Name != "Harbor Princess" || !boss.Immobile {
		t.Fatalf("boss = %+v, want immobile Harbor Princess", boss)
	}
	if w.Grid.Get(boss.Position).Kind != grid.Island {
		t.Fatalf("Harbor Princess at %v on %s", boss.Position, w.Grid.Get(boss.Position).Kind)
	}
}

func TestDefeatBoss_ProcessAndCheck(t *testing.T) {
	w := newWorld(75, 75)
	addShip(w.Enemies, "e1", "Battleship", coord.C(10, 10))
	def, inst := setup(t, DefeatBoss, w, fixedEnv(0))
	boss := w.Enemies["e1"]
	boss.Health = 3000

	for turn, want := range map[int]int{0: 0, 4: 0, 5: 1, 7: 0, 10: 1} {
		w.Turn = turn
		msgs := process(def, w, inst)
		if len(msgs) != want {
			t.Errorf("turn %d: %d messages, want %d", turn, len(msgs), want)
		}
		if want == 1 && !strings.Contains(msgs[0], "50%") {
			t.Errorf("turn %d: %q lacks health percentage", turn, msgs[0])
		}
	}

	if def.Check(w, inst) {
		t.Fatal("boss afloat, should not be won")
	}
	boss.Health = 0
	if !def.Check(w, inst) {
		t.Fatal("zero-health boss should count as sunk")
	}
	boss.Health = 10
	delete(w.Enemies, "e1")
	if !def.Check(w, inst) {
		t.Fatal("absent boss should count as sunk")
	}
}

// --- salvage_supplies ---

func TestSalvageSupplies_RestartKeepsThreeZones(t *testing.T) {
	w := newWorld(75, 75)
	env := testEnv(31, 0)
	setup(t, SalvageSupplies, w, env)
	_, inst := setup(t, SalvageSupplies, w, env)
	s := inst.(*SalvageSuppliesState)

	if n := w.Grid.Count(grid.SalvageZone); n != SalvageZoneCount {
		t.Fatalf("salvage_zone cells = %d, want %d", n, SalvageZoneCount)
	}
	if len(s.Zones) != SalvageZoneCount {
		t.Fatalf("zones = %d", len(s.Zones))
	}
	for _, c := range w.Grid.Cells(grid.SalvageRadius) {
		near := false
		for _, z := range s.Zones {
			if coord.Distance(c, z.Center) <= SalvageRadius {
				near = true
			}
		}
		if !near {
			t.Errorf("stale salvage_radius cell %v", c)
		}
	}
	for i := range s.Zones {
		for j := i + 1; j < len(s.Zones); j++ {
			if d := coord.Distance(s.Zones[i].Center, s.Zones[j].Center); d < SalvageMinSpacing {
				t.Errorf("zones %d and %d only %.1f apart", i+1, j+1, d)
			}
		}
	}
}

func TestSalvageSupplies_NoOceanFallback(t *testing.T) {
	w := newWorld(75, 75)
	fillGrid(w.Grid, grid.Island)
	_, inst := setup(t, SalvageSupplies, w, testEnv(1, 0))
	s := inst.(*SalvageSuppliesState)

	if len(s.Zones) != SalvageZoneCount {
		t.Fatalf("zones = %d, want %d", len(s.Zones), SalvageZoneCount)
	}
	for i, z := range s.Zones {
		if want := defaultSalvageCenter(w.Grid, i); z.Center != want {
			t.Errorf("zone %d at %v, want default %v", i+1, z.Center, want)
		}
	}
	if n := w.Grid.Count(grid.SalvageZone); n != SalvageZoneCount {
		t.Fatalf("salvage_zone cells = %d", n)
	}
	if n := w.Grid.Count(grid.SalvageRadius); n != 0 {
		t.Fatalf("salvage_radius painted over island: %d cells", n)
	}
}

func TestSalvageSupplies_SingleOceanCell(t *testing.T) {
	w := newWorld(75, 75)
	fillGrid(w.Grid, grid.Island)
	open := coord.C(40, 40)
	w.Grid.SetKind(open, grid.Ocean)

	_, inst := setup(t, SalvageSupplies, w, testEnv(1, 0))
	s := inst.(*SalvageSuppliesState)
	if s.Zones[0].Center != open {
		t.Fatalf("zone 1 at %v, want the only open cell %v", s.Zones[0].Center, open)
	}
	for i := 1; i < SalvageZoneCount; i++ {
		if want := defaultSalvageCenter(w.Grid, i); s.Zones[i].Center != want {
			t.Errorf("zone %d at %v, want default %v", i+1, s.Zones[i].Center, want)
		}
	}
}

func TestSalvageSupplies_Process(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, SalvageSupplies, w, testEnv(9, 0))
	s := inst.(*SalvageSuppliesState)

	addShip(w.Players, "p1", "Destroyer", s.Zones[0].Center)
	addShip(w.Players, "p2", "Destroyer", s.Zones[0].Center)
	for turn := 0; turn < SalvageRequired; turn++ {
		process(def, w, inst)
	}
	if !s.Zones[0].Captured || s.Zones[0].Progress != SalvageRequired || s.ZonesCompleted != 1 {
		t.Fatalf("zone 1 = %+v, completed %d", s.Zones[0], s.ZonesCompleted)
	}
	process(def, w, inst)
	if s.Zones[0].Progress != SalvageRequired || s.ZonesCompleted != 1 {
		t.Fatal("captured zone kept progressing")
	}
	if def.Check(w, inst) {
		t.Fatal("one zone should not win")
	}

	addShip(w.Players, "p3", "Destroyer", s.Zones[1].Center)
	addShip(w.Players, "p4", "Destroyer", s.Zones[2].Center)
	for turn := 0; turn < SalvageRequired; turn++ {
		process(def, w, inst)
	}
	if !def.Check(w, inst) {
		t.Fatalf("completed %d/%d should win", s.ZonesCompleted, s.ZonesRequired)
	}
}

// --- convoy_interception ---

func TestConvoyInterception_Setup(t *testing.T) {
	w := newWorld(75, 75)
	addShip(w.Players, "p1", "Destroyer", coord.C(37, 70))
	_, inst := setup(t, ConvoyInterception, w, testEnv(3, 0))
	s := inst.(*ConvoyInterceptionState)

	if s.SpawnEdge != ZoneNorth {
		t.Fatalf("SpawnEdge = %s, want north", s.SpawnEdge)
	}
	if len(s.Ships) != InterceptionShips || s.RequiredCaptures != InterceptionRequired {
		t.Fatalf("ships=%d required=%d", len(s.Ships), s.RequiredCaptures)
	}
	for _, ship := range s.Ships {
		if ship.Position.Row != 1+EdgeInset || ship.Destination.Row != 75-EdgeInset {
			t.Errorf("%s: %v -> %v", ship.ID, ship.Position, ship.Destination)
		}
		if _, ok := w.Enemies[ship.ID]; ok {
			t.Errorf("%s leaked into the enemy fleet", ship.ID)
		}
	}
}

func TestConvoyInterception_SpawnerEdge(t *testing.T) {
	w := newWorld(75, 75)
	addShip(w.Players, "p1", "Destroyer", coord.C(70, 38))
	sp := &fixedSpawner{}
	env := testEnv(3, 0)
	env.Spawner = sp
	_, inst := setup(t, ConvoyInterception, w, env)
	s := inst.(*ConvoyInterceptionState)
	if s.SpawnEdge != ZoneWest {
		t.Fatalf("SpawnEdge = %s, want west", s.SpawnEdge)
	}
	if len(sp.zones) != InterceptionShips {
		t.Fatalf("spawner asked %d times", len(sp.zones))
	}
	for _, ship := range s.Ships {
		if ship.Position.Col != EdgeInset || ship.Destination.Col != 75-1-EdgeInset {
			t.Errorf("%s: %v -> %v", ship.ID, ship.Position, ship.Destination)
		}
	}
}

func TestConvoyInterception_CaptureEscapeDisjoint(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, ConvoyInterception, w, testEnv(3, 0))
	s := inst.(*ConvoyInterceptionState)

	addShip(w.Players, "hunter", "Destroyer", s.Ships[0].Position)
	sunk := s.Ships[4]
	sunk.Alive = false
	sunkAt := sunk.Position

	frozen := map[string]coord.Coord{}
	for turn := 1; turn <= 60; turn++ {
		process(def, w, inst)
		for _, ship := range s.Ships {
			if ship.Captured && ship.Escaped {
				t.Fatalf("turn %d: %s both captured and escaped", turn, ship.ID)
			}
			if at, ok := frozen[ship.ID]; ok && at != ship.Position {
				t.Fatalf("turn %d: resolved %s moved from %v to %v", turn, ship.ID, at, ship.Position)
			}
			if ship.Captured || ship.Escaped {
				frozen[ship.ID] = ship.Position
			}
		}
	}
	if !s.Ships[0].Captured || s.ShipsCaptured != 1 {
		t.Fatalf("ship under the hunter not captured: %+v", s.Ships[0])
	}
	if sunk.Captured || sunk.Escaped || sunk.Position != sunkAt {
		t.Fatalf("sunk ship was processed: %+v", sunk)
	}
	if s.ShipsEscaped != 3 {
		t.Fatalf("ShipsEscaped = %d, want 3", s.ShipsEscaped)
	}
	if !s.Failed() {
		t.Fatal("3 escapes out of 5 with 3 required should fail")
	}
	if def.Check(w, inst) {
		t.Fatal("failed mission should not also be won")
	}
}

func TestConvoyInterception_FailAnnouncedOnce(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, ConvoyInterception, w, testEnv(3, 0))
	s := inst.(*ConvoyInterceptionState)

	var all []string
	for turn := 0; turn < 100; turn++ {
		all = append(all, process(def, w, inst)...)
		if s.ShipsEscaped <= len(s.Ships)-s.RequiredCaptures && s.Failed() {
			t.Fatalf("failed early with %d escaped", s.ShipsEscaped)
		}
	}
	if s.ShipsEscaped != InterceptionShips || !s.Failed() {
		t.Fatalf("escaped=%d failed=%v", s.ShipsEscaped, s.Failed())
	}
	if n := countContaining(all, "Too few supply ships"); n != 1 {
		t.Fatalf("failure announced %d times", n)
	}
}

func TestConvoyInterception_SunkTransportsFail(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, ConvoyInterception, w, testEnv(3, 0))
	s := inst.(*ConvoyInterceptionState)

	for _, ship := range s.Ships[:3] {
		ship.Alive = false
	}
	msgs := process(def, w, inst)
	if !s.Failed() {
		t.Fatalf("2 transports afloat with 3 required should fail, captured=%d escaped=%d",
			s.ShipsCaptured, s.ShipsEscaped)
	}
	if def.Check(w, inst) {
		t.Fatal("failed mission should not also be won")
	}
	if countContaining(msgs, "3 sunk") != 1 {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestConvoyInterception_SunkButReachable(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, ConvoyInterception, w, testEnv(3, 0))
	s := inst.(*ConvoyInterceptionState)

	s.Ships[0].Alive = false
	s.Ships[1].Alive = false
	process(def, w, inst)
	if s.Failed() {
		t.Fatal("3 transports afloat can still meet a quota of 3")
	}
}

func TestConvoyInterception_CaptureBeatsEscape(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, ConvoyInterception, w, testEnv(3, 0))
	s := inst.(*ConvoyInterceptionState)

	ship := s.Ships[0]
	ship.Position = ship.Destination
	addShip(w.Players, "p1", "Destroyer", coord.C(ship.Position.Col+1, ship.Position.Row))
	process(def, w, inst)
	if !ship.Captured || ship.Escaped {
		t.Fatalf("ship at destination with a player alongside: %+v", ship)
	}
}

func TestConvoyInterception_Victory(t *testing.T) {
	w := newWorld(75, 75)
	def, inst := setup(t, ConvoyInterception, w, testEnv(3, 0))
	s := inst.(*ConvoyInterceptionState)
	for i := 0; i < InterceptionRequired; i++ {
		addShip(w.Players, string(rune('a'+i)), "Destroyer", s.Ships[i].Position)
	}
	process(def, w, inst)
	if !def.Check(w, inst) {
		t.Fatalf("captured %d/%d should win", s.ShipsCaptured, s.RequiredCaptures)
	}
}
