package blocks

import (
	"testing"

	"github.com/reusee/steina/steinavm"
	"github.com/reusee/steina/targets"
)

func TestInfoCoversPrimitives(t *testing.T) {
	runtime := steinavm.NewRuntime(nil)
	extensions := []Extension{
		NewVideoBlocks(runtime),
		NewAudioBlocks(runtime),
		NewMotionBlocks(runtime),
	}
	for _, extension := range extensions {
		info := extension.Info()
		if info.ID == "" || info.Name == "" {
			t.Fatalf("bad info: %+v", info)
		}
		primitives := extension.Primitives()
		for _, block := range info.Blocks {
			if _, ok := primitives[block.Opcode]; !ok {
				t.Fatalf("%s: descriptor %q has no primitive", info.ID, block.Opcode)
			}
			// every placeholder menu must resolve
			for _, arg := range block.Arguments {
				if arg.Menu == "" {
					continue
				}
				if _, ok := info.Menus[arg.Menu]; !ok {
					t.Fatalf("%s: unknown menu %q", info.ID, arg.Menu)
				}
			}
		}
	}
}

func TestMarkersMenuBuilder(t *testing.T) {
	runtime := steinavm.NewRuntime(nil)
	target := targets.NewAudioTarget("a1", 48000, 48000)
	target.SetTrim(100, 40000)
	target.SetMarkers([]int{5000, 20000})
	runtime.AddTarget(target)

	audio := NewAudioBlocks(runtime)
	menu := audio.Info().Menus["markers"]
	if menu.Build == nil {
		t.Fatal("markers menu is not dynamic")
	}

	items := menu.Build("a1")
	if len(items) != 4 {
		t.Fatalf("got %v", items)
	}
	if items[0].Text != "start" || items[0].Value != "100" {
		t.Fatalf("got %+v", items[0])
	}
	if items[1].Value != "5000" || items[2].Value != "20000" {
		t.Fatalf("got %v", items)
	}
	if items[3].Text != "end" || items[3].Value != "40000" {
		t.Fatalf("got %+v", items[3])
	}

	// no target: the placeholder entry
	items = menu.Build("nope")
	if len(items) != 1 || items[0].Text != "n/a" || items[0].Value != "0" {
		t.Fatalf("got %v", items)
	}
}

func TestVideoMarkersMenuBuilder(t *testing.T) {
	runtime := steinavm.NewRuntime(nil)
	target := targets.NewVideoTarget("v1", 30, 300)
	target.SetTrim(10, 200)
	target.SetMarkers([]int{50})
	runtime.AddTarget(target)

	video := NewVideoBlocks(runtime)
	items := video.Info().Menus["markers"].Build("v1")
	if len(items) != 3 {
		t.Fatalf("got %v", items)
	}
	if items[0].Value != "10" || items[1].Value != "50" || items[2].Value != "200" {
		t.Fatalf("got %v", items)
	}
}

func TestCasts(t *testing.T) {
	if toNumber("33.33") != 33.33 {
		t.Fatal()
	}
	if toNumber("not a number") != 0 {
		t.Fatal()
	}
	if toNumber(nil) != 0 {
		t.Fatal()
	}
	if toNumber(true) != 1 {
		t.Fatal()
	}
	if toString(float64(42)) != "42" {
		t.Fatal()
	}
	if toString(nil) != "" {
		t.Fatal()
	}
}
