package vm

import (
	"testing"

	"github.com/ethereum/go-ethereum/params"
)

func TestSpecIDMainnet(t *testing.T) {
	cfg := params.MainnetChainConfig
	tests := []struct {
		num  uint64
		ts   uint64
		want EngineSpec
	}{
		{0, 0, SpecFrontier},
		{1_150_000, 0, SpecHomestead},
		{2_463_000, 0, SpecTangerine},
		{2_675_000, 0, SpecSpuriousDragon},
		{4_370_000, 0, SpecByzantium},
		{7_280_000, 0, SpecPetersburg},
		{9_069_000, 0, SpecIstanbul},
		{12_244_000, 0, SpecBerlin},
		{12_965_000, 0, SpecLondon},
		{13_773_000, 0, SpecArrowGlacier},
		{15_050_000, 0, SpecGrayGlacier},
		{17_034_870, 1681338455, SpecShanghai},
		{19_426_587, 1710338135, SpecCancun},
	}
	for _, tt := range tests {
		if got := SpecID(cfg, tt.num, tt.ts); got != tt.want {
			t.Errorf("block %d ts %d: have %v (%d), want %v (%d)", tt.num, tt.ts, got, got, tt.want, tt.want)
		}
	}
}

func TestEngineSpecString(t *testing.T) {
	if SpecGrayGlacier.String() != "gray_glacier" {
		t.Fatalf("unexpected name %q", SpecGrayGlacier.String())
	}
	if EngineSpec(18).String() != "unknown" {
		t.Fatalf("unassigned id must be unknown, got %q", EngineSpec(18).String())
	}
}
