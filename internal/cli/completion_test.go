package cli

import (
	"context"
	"slices"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteItems(t *testing.T) {
	c, _ := testCLI(t)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	got, dir := c.completeItems(cmd, nil, "ir")
	want := []string{"Iron Ingot", "Iron Ore", "Iron Plate"}
	if !slices.Equal(got, want) {
		t.Errorf("completeItems(ir) = %v, want %v", got, want)
	}
	if dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", dir)
	}

	if got, _ := c.completeItems(cmd, []string{"Torch"}, ""); len(got) != 0 {
		t.Errorf("amount argument completed to %v", got)
	}
}

func TestCompletePoolItems(t *testing.T) {
	c, _ := testCLI(t)
	if err := run(t, c, "pool", "add", "Coal", "2", "Cobblestone", "9", "Log", "1"); err != nil {
		t.Fatal(err)
	}

	got, _ := c.completePoolItems(&cobra.Command{}, []string{"Coal"}, "co")
	if !slices.Equal(got, []string{"Cobblestone"}) {
		t.Errorf("completePoolItems(co) = %v, want [Cobblestone]", got)
	}
}

func TestMatchItems(t *testing.T) {
	names := []string{"Iron Ore", "iron nugget", "Gold Ore"}
	if got := matchItems(names, "IRON"); !slices.Equal(got, []string{"Iron Ore", "iron nugget"}) {
		t.Errorf("matchItems(IRON) = %v", got)
	}
	if got := matchItems(names, ""); len(got) != 3 {
		t.Errorf("empty prefix matched %v", got)
	}
}
