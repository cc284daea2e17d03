package explore

import (
	"testing"

	"shellkick/internal/fitness"
)

func testAgent(t *testing.T, eval Evaluator, p Personality) *Agent {
	t.Helper()
	a, err := NewAgent(AgentConfig{
		ID:          "a1",
		Console:     &fakeConsole{},
		Personality: p,
		Evaluator:   eval,
		Seed:        1,
	})
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	return a
}

func flatPersonality(patience, randomDuration int) Personality {
	return Personality{
		Patience:           patience,
		RandomDuration:     randomDuration,
		Horizon:            1,
		MutationRate:       0.2,
		CandidateCount:     1,
		CheckpointInterval: 100,
	}
}

func TestNewAgentValidation(t *testing.T) {
	p := flatPersonality(3, 4)
	eval := fixedEval{out: fitness.Transitional()}

	if _, err := NewAgent(AgentConfig{Console: &fakeConsole{}, Personality: p, Evaluator: eval}); err == nil {
		t.Fatal("expected error for missing id")
	}
	if _, err := NewAgent(AgentConfig{ID: "a", Personality: p, Evaluator: eval}); err == nil {
		t.Fatal("expected error for missing console")
	}
	if _, err := NewAgent(AgentConfig{ID: "a", Console: &fakeConsole{}, Personality: p}); err == nil {
		t.Fatal("expected error for missing evaluator")
	}
	bad := p
	bad.Patience = 0
	if _, err := NewAgent(AgentConfig{ID: "a", Console: &fakeConsole{}, Personality: bad, Evaluator: eval}); err == nil {
		t.Fatal("expected error for invalid personality")
	}
}

func TestAgentStartsWithFloorCheckpoint(t *testing.T) {
	a := testAgent(t, fixedEval{out: fitness.Transitional()}, flatPersonality(3, 4))
	if a.HistoryLen() != 1 {
		t.Fatalf("history len = %d, want seeded floor checkpoint", a.HistoryLen())
	}
}

// With horizon 1 every tick is a decision point, so patience counts
// ticks directly.
func TestAgentStuckCounterTriggersRandomWalk(t *testing.T) {
	a := testAgent(t, fixedEval{out: fitness.Progressing(5)}, flatPersonality(3, 4))

	a.Tick()
	a.Tick()
	if a.RandomWalks() != 0 {
		t.Fatalf("walk started one decision early: %d", a.RandomWalks())
	}
	if a.Mode() != ModeSearching {
		t.Fatalf("mode = %v before patience ran out, want searching", a.Mode())
	}

	a.Tick()
	if a.RandomWalks() != 1 {
		t.Fatalf("walks = %d after patience decisions, want 1", a.RandomWalks())
	}
	if a.Mode() != ModeRandomWalking {
		t.Fatalf("mode = %v, want random walking", a.Mode())
	}
}

func TestAgentRandomWalkRunsExactDuration(t *testing.T) {
	a := testAgent(t, fixedEval{out: fitness.Progressing(5)}, flatPersonality(3, 4))

	for i := 0; i < 3; i++ {
		a.Tick()
	}
	if a.Mode() != ModeRandomWalking {
		t.Fatal("walk did not start")
	}

	// The walk covers exactly RandomDuration decision points.
	for i := 0; i < 4; i++ {
		if a.Mode() != ModeRandomWalking {
			t.Fatalf("walk ended early at decision %d", i)
		}
		a.Tick()
	}
	if a.Mode() != ModeSearching {
		t.Fatalf("mode = %v after walk duration, want searching", a.Mode())
	}

	// Stuck counting resumes from zero afterwards.
	a.Tick()
	a.Tick()
	if a.RandomWalks() != 1 {
		t.Fatalf("walks = %d, second walk started early", a.RandomWalks())
	}
	a.Tick()
	if a.RandomWalks() != 2 {
		t.Fatalf("walks = %d after another patience run, want 2", a.RandomWalks())
	}
}

func TestAgentTransitionalNeverCountsAsStuck(t *testing.T) {
	a := testAgent(t, fixedEval{out: fitness.Transitional()}, flatPersonality(2, 4))

	for i := 0; i < 50; i++ {
		a.Tick()
	}
	if a.RandomWalks() != 0 {
		t.Fatalf("walks = %d during transitional stretch, want 0", a.RandomWalks())
	}
	if a.Reverts() != 0 {
		t.Fatalf("reverts = %d during transitional stretch, want 0", a.Reverts())
	}
}

func TestAgentPersistentFailureRevertsThenWalks(t *testing.T) {
	a := testAgent(t, fixedEval{out: fitness.Failing(false)}, flatPersonality(3, 5))

	for i := 0; i < 3; i++ {
		a.Tick()
	}
	if a.Reverts() != 3 {
		t.Fatalf("reverts = %d, want one per decision", a.Reverts())
	}
	if a.HistoryLen() != 1 {
		t.Fatalf("history len = %d, the floor must survive every rewind", a.HistoryLen())
	}
	if a.RandomWalks() != 1 {
		t.Fatalf("walks = %d, want escape after patience failures", a.RandomWalks())
	}
	if a.Mode() != ModeRandomWalking {
		t.Fatalf("mode = %v, want random walking", a.Mode())
	}

	for i := 0; i < 5; i++ {
		a.Tick()
	}
	if a.Mode() != ModeSearching {
		t.Fatalf("mode = %v after walk duration, want searching", a.Mode())
	}
	if a.RandomWalks() != 1 {
		t.Fatalf("walks = %d, want still 1 right after the walk", a.RandomWalks())
	}
}

func TestAgentCheckpointsOnInterval(t *testing.T) {
	p := flatPersonality(100, 4)
	p.CheckpointInterval = 2
	a := testAgent(t, fixedEval{out: fitness.Progressing(5)}, p)

	for i := 0; i < 3; i++ {
		a.Tick()
	}
	if a.HistoryLen() != 2 {
		t.Fatalf("history len = %d after first interval, want 2", a.HistoryLen())
	}
	for i := 0; i < 3; i++ {
		a.Tick()
	}
	if a.HistoryLen() != 3 {
		t.Fatalf("history len = %d after second interval, want 3", a.HistoryLen())
	}
}

func TestAgentProgressLatchesAcrossSetbacks(t *testing.T) {
	a := testAgent(t, fixedEval{out: fitness.Progressing(9)}, flatPersonality(100, 4))

	a.Tick()
	if a.Progress() != 9 {
		t.Fatalf("progress = %d, want 9", a.Progress())
	}
	if a.Outcome() != fitness.KindProgressing {
		t.Fatalf("outcome = %v, want progressing", a.Outcome())
	}

	a.eval = fixedEval{out: fitness.Failing(false)}
	a.Tick()
	if a.Progress() != 9 {
		t.Fatalf("progress = %d through a failing stretch, want latched 9", a.Progress())
	}
	if a.Outcome() != fitness.KindFailing {
		t.Fatalf("outcome = %v, want failing", a.Outcome())
	}
}

func TestAgentTickCountsFrames(t *testing.T) {
	a := testAgent(t, fixedEval{out: fitness.Progressing(1)}, flatPersonality(100, 4))
	for i := 0; i < 17; i++ {
		a.Tick()
	}
	if a.Ticks() != 17 {
		t.Fatalf("ticks = %d, want 17", a.Ticks())
	}
}
