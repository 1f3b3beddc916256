package control

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareTotalOrder(t *testing.T) {
	ordered := []Desc{
		{Group: "", Name: "input", Func: "level", Kind: KindNumeric, Unit: -1},
		{Group: "", Name: "output", Func: "level", Kind: KindNumeric, Unit: 0},
		{Group: "", Name: "output", Func: "level", Kind: KindNumeric, Unit: 1},
		{Group: "", Name: "output", Func: "mute", Kind: KindSwitch, Unit: -1},
		{Group: "", Name: "server", Func: "device", Kind: KindSelector, Unit: -1, Label: "headphones"},
		{Group: "", Name: "server", Func: "device", Kind: KindSelector, Unit: -1, Label: "speakers"},
		{Group: "app", Name: "firefox", Func: "level", Kind: KindNumeric, Unit: 7},
		{Group: "app", Name: "mpv", Func: "level", Kind: KindNumeric, Unit: 3},
	}

	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])
			switch {
			case i < j:
				require.Negative(t, got, "expected %v < %v", ordered[i], ordered[j])
			case i > j:
				require.Positive(t, got, "expected %v > %v", ordered[i], ordered[j])
			default:
				require.Zero(t, got)
			}
		}
	}
}

func TestCompareKindBeforeFunc(t *testing.T) {
	num := Desc{Name: "output", Func: "mute", Kind: KindNumeric}
	sw := Desc{Name: "output", Func: "level", Kind: KindSwitch}
	require.Negative(t, Compare(num, sw))
}

func TestSameGroup(t *testing.T) {
	a := Desc{Group: "", Name: "server", Func: "device", Label: "a"}
	b := Desc{Group: "", Name: "server", Func: "device", Label: "b"}
	c := Desc{Group: "app", Name: "server", Func: "device"}
	require.True(t, a.SameGroup(b))
	require.False(t, a.SameGroup(c))
}

func TestDescString(t *testing.T) {
	tests := []struct {
		desc Desc
		want string
	}{
		{Desc{Name: "output", Func: "level", Unit: -1, Kind: KindNumeric}, "output.level"},
		{Desc{Group: "app", Name: "firefox", Func: "level", Unit: 2, Kind: KindNumeric}, "app/firefox2.level"},
		{Desc{Name: "server", Func: "device", Unit: -1, Kind: KindSelector, Label: "speakers"}, "server.device[speakers]"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, tc.desc.String())
	}
}

func TestKindValid(t *testing.T) {
	require.True(t, KindNumeric.Valid())
	require.True(t, KindSwitch.Valid())
	require.True(t, KindSelector.Valid())
	require.False(t, Kind(0).Valid())
	require.False(t, Kind(9).Valid())
}
