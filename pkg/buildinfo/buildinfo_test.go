package buildinfo

import (
	"fmt"
	"runtime/debug"
	"testing"

	"src.elv.sh/formtk/pkg/prog/progtest"
	"src.elv.sh/formtk/pkg/testutil"
)

func TestProgram(t *testing.T) {
	testutil.Setenv(t, "XDG_CONFIG_HOME", t.TempDir())
	progtest.Test(t, &Program{},
		progtest.ThatFormtk("-version").WritesStdout(Value.Version+"\n"),
		progtest.ThatFormtk("-version", "-json").WritesStdout(mustToJSON(Value.Version)+"\n"),

		progtest.ThatFormtk("-buildinfo").WritesStdout(
			fmt.Sprintf("Version: %v\nGo version: %v\n", Value.Version, Value.GoVersion)),
		progtest.ThatFormtk("-buildinfo", "-json").WritesStdout(mustToJSON(Value)+"\n"),

		progtest.ThatFormtk().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}

var devVersionTests = []struct {
	name        string
	vcsOverride string
	bi          *debug.BuildInfo
	want        string
}{
	{"no BuildInfo", "", nil, "0.9.0-dev.unknown"},
	{
		"devel main version and no VCS data",
		"",
		&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
		"0.9.0-dev.unknown",
	},
	{
		"tagged main version",
		"",
		&debug.BuildInfo{Main: debug.Module{Version: "v0.8.1"}},
		"0.8.1",
	},
	{
		"clean checkout",
		"",
		&debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abcdef0123456789"},
			{Key: "vcs.time", Value: "2024-05-06T07:08:09Z"},
			{Key: "vcs.modified", Value: "false"},
		}},
		"0.9.0-dev.0.20240506070809-abcdef012345",
	},
	{
		"dirty checkout",
		"",
		&debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abcdef0123456789"},
			{Key: "vcs.time", Value: "2024-05-06T07:08:09Z"},
			{Key: "vcs.modified", Value: "true"},
		}},
		"0.9.0-dev.0.20240506070809-abcdef012345-dirty",
	},
	{
		"bad VCS time",
		"",
		&debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abcdef0123456789"},
			{Key: "vcs.time", Value: "yesterday"},
		}},
		"0.9.0-dev.unknown",
	},
	{"override", "20240506070809-abcdef012345", nil, "0.9.0-dev.0.20240506070809-abcdef012345"},
}

func TestDevVersion(t *testing.T) {
	for _, test := range devVersionTests {
		t.Run(test.name, func(t *testing.T) {
			read := func() (*debug.BuildInfo, bool) { return test.bi, test.bi != nil }
			if got := devVersion("0.9.0", test.vcsOverride, read); got != test.want {
				t.Errorf("got %q, want %q", got, test.want)
			}
		})
	}
}
