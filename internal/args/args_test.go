package args

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	s := Parse([]string{
		"PREFIX=/usr",
		"DESTDIR=/var/tmp/portage/image",
		"CXXFLAGS=-O2 -march=native -pipe",
		"LDFLAGS=-Wl,-O1 -Wl,--as-needed",
		"install",
		"EMPTY=",
		"EQ=a=b",
		"=orphan",
	})

	tests := []struct {
		name string
		want string
	}{
		{"PREFIX", "/usr"},
		{"DESTDIR", "/var/tmp/portage/image"},
		{"CXXFLAGS", "-O2 -march=native -pipe"},
		{"LDFLAGS", "-Wl,-O1 -Wl,--as-needed"},
		{"EMPTY", ""},
		{"EQ", "a=b"},
		{"MISSING", ""},
	}
	for _, tt := range tests {
		if got := s.Get(tt.name); got != tt.want {
			t.Errorf("Get(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	if _, ok := s.Lookup("EMPTY"); !ok {
		t.Error("Lookup(EMPTY) ok = false, want true")
	}
	if _, ok := s.Lookup("MISSING"); ok {
		t.Error("Lookup(MISSING) ok = true, want false")
	}

	wantTargets := []string{"install", "=orphan"}
	if got := s.Targets(); !reflect.DeepEqual(got, wantTargets) {
		t.Errorf("Targets() = %v, want %v", got, wantTargets)
	}
	if !s.AnyTarget() {
		t.Error("AnyTarget() = false, want true")
	}
}

func TestParseLastValueWins(t *testing.T) {
	s := Parse([]string{"PREFIX=/usr", "PREFIX=/opt"})
	if got := s.Get("PREFIX"); got != "/opt" {
		t.Errorf("Get(PREFIX) = %q, want /opt", got)
	}
	if s.AnyTarget() {
		t.Error("AnyTarget() = true, want false")
	}
}

func TestInstallRequested(t *testing.T) {
	tests := []struct {
		argv []string
		want bool
	}{
		{[]string{"INSTALL=1"}, true},
		{[]string{"INSTALL=0"}, false},
		{[]string{"INSTALL=true"}, false},
		{[]string{"INSTALL=yes"}, false},
		{[]string{"INSTALL="}, false},
		{[]string{"install=1"}, false},
		{[]string{"INSTALL"}, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := Parse(tt.argv).InstallRequested(); got != tt.want {
			t.Errorf("Parse(%q).InstallRequested() = %v, want %v", tt.argv, got, tt.want)
		}
	}
}

func TestOptions(t *testing.T) {
	s := Parse(nil)
	if s.Option(OptionClean) {
		t.Error("clean option set by default")
	}
	s.SetOption(OptionClean, true)
	if !s.Option(OptionClean) {
		t.Error("clean option not set after SetOption")
	}
	if s.Option(OptionDryRun) {
		t.Error("dry-run option set unexpectedly")
	}
}

func TestTargetsReturnsCopy(t *testing.T) {
	s := Parse([]string{"all"})
	targets := s.Targets()
	targets[0] = "changed"
	if s.Targets()[0] != "all" {
		t.Error("Targets() exposed internal slice")
	}
}
