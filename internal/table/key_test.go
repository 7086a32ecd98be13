package table

import "testing"

func TestKeySelector(t *testing.T) {
	cases := []struct {
		key  Key
		want string
	}{
		{StringKey("name"), ".name"},
		{StringKey("_private"), "._private"},
		{StringKey("k-1"), `.["k-1"]`},
		{StringKey("with space"), `.["with space"]`},
		{StringKey(`qu"ote`), `.["qu\"ote"]`},
		{StringKey("1abc"), `.["1abc"]`},
		{IntKey(0), ".[0]"},
		{IntKey(12), ".[12]"},
		{NoneKey(), ""},
	}
	for _, c := range cases {
		if got := c.key.Selector(); got != c.want {
			t.Errorf("Selector(%v) = %q, want %q", c.key.Display(), got, c.want)
		}
	}
}

func TestPathSelectorAndDisplay(t *testing.T) {
	p := Path{StringKey("addr"), StringKey("city")}
	if got := p.Selector(); got != ".addr.city" {
		t.Errorf("Selector() = %q", got)
	}
	if got := p.Display(); got != "addr.city" {
		t.Errorf("Display() = %q", got)
	}

	p = Path{StringKey("items"), IntKey(3)}
	if got := p.Selector(); got != ".items.[3]" {
		t.Errorf("Selector() = %q", got)
	}
	if got := p.Display(); got != "items.3" {
		t.Errorf("Display() = %q", got)
	}
}

func TestKeyDisplay(t *testing.T) {
	if got := IntKey(7).Display(); got != "7" {
		t.Errorf("IntKey Display = %q", got)
	}
	if got := StringKey("x").Display(); got != "x" {
		t.Errorf("StringKey Display = %q", got)
	}
	if got := NoneKey().Display(); got != "" {
		t.Errorf("NoneKey Display = %q", got)
	}
}
