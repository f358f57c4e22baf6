package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/algo-auditory/dsp/adaptloop"
)

func TestRunList(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--list"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	want := "dau1996\nosses2021\npuschel1988\nbreebaart2001\n"
	if stdout.String() != want {
		t.Fatalf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--help"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	if !strings.Contains(stdout.String(), "--mtf") {
		t.Fatalf("help output missing --mtf:\n%s", stdout.String())
	}
}

func TestRunPresetTables(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"--fs", "8000", "--duration", "0.5", "--coef", "--mtf", "4,64", "osses2021", "nosuch"}
	if code := run(args, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{"Step response", "osses2021", "Tau [ms]", "Gain [dB]", "500.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "dau1996") {
		t.Errorf("output contains unrequested preset:\n%s", out)
	}
	if !strings.Contains(stderr.String(), `unknown preset "nosuch"`) {
		t.Errorf("stderr = %q, want unknown preset warning", stderr.String())
	}
}

func TestRunLevelReference(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default offset",
			args: []string{"--fs", "8000", "--duration", "0.2", "dau1996"},
			want: []string{"Min [dB SPL]", "70 dB SPL = 0.03162"},
		},
		{
			name: "shifted offset",
			args: []string{"--fs", "8000", "--duration", "0.2", "--db-offset", "94", "--level", "94", "dau1996"},
			want: []string{"94 dB SPL = 1,", " -6.0 "},
		},
		{
			name: "muenkner limiter",
			args: []string{"--fs", "8000", "--duration", "0.2", "--limiter", "muenkner", "osses2021"},
			want: []string{"osses2021", "Step response"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 0 {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
			}

			out := stdout.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "bad flag", args: []string{"--nosuchflag"}, code: 2},
		{name: "bad scale", args: []string{"--scale", "db"}, code: 2},
		{name: "bad limiter", args: []string{"--limiter", "hard"}, code: 2},
		{name: "bad frequency", args: []string{"--mtf", "4,x"}, code: 2},
		{name: "no presets", args: []string{"nosuch"}, code: 1},
		{name: "bad sample rate", args: []string{"--fs", "0", "dau1996"}, code: 1},
		{name: "bad depth", args: []string{"--fs", "8000", "--duration", "0.1", "--mtf", "4", "--depth", "2", "dau1996"}, code: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != tt.code {
				t.Fatalf("exit code = %d, want %d (stderr %s)", code, tt.code, stderr.String())
			}
		})
	}
}

func TestParseScale(t *testing.T) {
	if parseScale("unit") != adaptloop.OutputUnit || parseScale("mu") != adaptloop.OutputModelUnits {
		t.Fatal("unexpected scale mapping")
	}
}

func TestParseLimiter(t *testing.T) {
	if parseLimiter("equilibrium") != adaptloop.LimiterEquilibrium || parseLimiter("muenkner") != adaptloop.LimiterMuenkner {
		t.Fatal("unexpected limiter mapping")
	}
}
