package engine_test

import (
	"testing"

	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
)

func TestActorClaimsOrigin(t *testing.T) {
	b := engine.NewBoard(5, 5)
	a := engine.NewActor(b, 3, engine.P(2, 2), engine.HeadingUp)

	if a.Length() != 1 {
		t.Errorf("Length() = %d, expected 1", a.Length())
	}
	if id, _ := b.OccupantAt(engine.P(2, 2)); id != 3 {
		t.Errorf("origin occupant = %d, expected 3", id)
	}
	if a.Heading() != engine.HeadingUp {
		t.Errorf("Heading() = %v, expected up", a.Heading())
	}
}

func TestActorNoReversal(t *testing.T) {
	for _, h := range allHeadings {
		t.Run(h.String(), func(t *testing.T) {
			b := engine.NewBoard(5, 5)
			a := engine.NewActor(b, 1, engine.P(2, 2), h)

			if a.ChangeHeading(h.Opposite()) {
				t.Errorf("ChangeHeading(%v) from %v should be refused", h.Opposite(), h)
			}
			if a.Heading() != h {
				t.Errorf("Heading() = %v after refused reversal, expected %v", a.Heading(), h)
			}
		})
	}
}

func TestActorWallLookahead(t *testing.T) {
	b := engine.NewBoard(5, 5)
	a := engine.NewActor(b, 1, engine.P(0, 0), engine.HeadingRight)

	if a.ChangeHeading(engine.HeadingUp) {
		t.Error("turning up at the top wall should be refused")
	}
	if a.Heading() != engine.HeadingRight {
		t.Errorf("Heading() = %v, expected right", a.Heading())
	}
	if !a.ChangeHeading(engine.HeadingDown) {
		t.Error("turning down away from the wall should be accepted")
	}
	if a.Heading() != engine.HeadingDown {
		t.Errorf("Heading() = %v, expected down", a.Heading())
	}
	if a.ChangeHeading(engine.HeadingNone) {
		t.Error("an invalid heading should be refused")
	}
}

func TestActorMoveGrows(t *testing.T) {
	b := engine.NewBoard(4, 1)
	a := engine.NewActor(b, 5, engine.P(0, 0), engine.HeadingRight)

	for i := 1; i <= 3; i++ {
		if !a.Move() {
			t.Fatalf("move %d should succeed", i)
		}
		if a.Length() != i+1 {
			t.Errorf("Length() = %d after %d moves, expected %d", a.Length(), i, i+1)
		}
		if a.Head() != engine.P(i, 0) {
			t.Errorf("Head() = %v, expected (%d,0)", a.Head(), i)
		}
	}

	// Wall: the head lands on the illegal cell
	if a.Move() {
		t.Fatal("moving past the right wall should fail")
	}
	if a.Head() != engine.P(4, 0) {
		t.Errorf("Head() = %v after wall collision, expected (4,0)", a.Head())
	}
	if a.Alive() {
		t.Error("Alive() should be false after collision")
	}
	if a.Length() != 4 {
		t.Errorf("Length() = %d, collision must not grow the snake", a.Length())
	}

	// Dead snakes stay put
	if a.Move() || a.Head() != engine.P(4, 0) {
		t.Error("a dead snake should not move")
	}
}

func TestActorSelfCollision(t *testing.T) {
	b := engine.NewBoard(3, 3)
	a := engine.NewActor(b, 1, engine.P(0, 0), engine.HeadingRight)

	steps := []engine.Heading{
		engine.HeadingRight, // (1,0)
		engine.HeadingDown,  // (1,1)
		engine.HeadingLeft,  // (0,1)
	}
	for _, h := range steps {
		if h != a.Heading() && !a.ChangeHeading(h) {
			t.Fatalf("ChangeHeading(%v) refused", h)
		}
		if !a.Move() {
			t.Fatalf("move %v should succeed", h)
		}
	}

	if !a.ChangeHeading(engine.HeadingUp) {
		t.Fatal("turning up toward the origin should be accepted")
	}
	if a.Move() {
		t.Fatal("moving onto the origin should collide")
	}
	if a.Head() != engine.P(0, 0) {
		t.Errorf("Head() = %v, expected (0,0)", a.Head())
	}
}

// Cells are never vacated, so the free area only shrinks.
func TestBoardShrinksMonotonically(t *testing.T) {
	b := engine.NewBoard(6, 1)
	a := engine.NewActor(b, 2, engine.P(0, 0), engine.HeadingRight)

	free := b.FreeCount()
	if free != 5 {
		t.Fatalf("FreeCount() = %d, expected 5", free)
	}
	for a.Move() {
		if b.FreeCount() != free-1 {
			t.Errorf("FreeCount() = %d, expected %d", b.FreeCount(), free-1)
		}
		free = b.FreeCount()
		// Every visited cell, including the origin, is still occupied
		for x := 0; x <= a.Head().X; x++ {
			if id, _ := b.OccupantAt(engine.P(x, 0)); id != 2 {
				t.Errorf("cell (%d,0) = %d, expected to stay occupied by 2", x, id)
			}
		}
	}
	if free != 0 {
		t.Errorf("FreeCount() = %d at death, expected 0", free)
	}
}

func TestIDGeneratorUnique(t *testing.T) {
	ids := engine.NewIDGenerator()
	seen := make(map[engine.ActorID]bool)
	for i := 0; i < 100; i++ {
		id := ids.Next()
		if id == engine.Empty {
			t.Fatal("identity must never equal Empty")
		}
		if seen[id] {
			t.Fatalf("identity %d reused", id)
		}
		seen[id] = true
	}
}
