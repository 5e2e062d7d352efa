package steinaconfigs

import (
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/steina/configs"
	"github.com/reusee/steina/modes"
)

func TestDefaults(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Fork(
		dscope.Provide(configs.NewLoader(nil, "")),
	).Call(func(
		stepTime StepTime,
		turbo Turbo,
		listen ListenAddr,
		database DatabasePath,
	) {
		if stepTime != StepTime(1000.0/30) {
			t.Fatalf("got %v", stepTime)
		}
		if turbo {
			t.Fatal()
		}
		if listen != ":8733" {
			t.Fatalf("got %v", listen)
		}
		if database != "steina.db" {
			t.Fatalf("got %v", database)
		}
	})
}
