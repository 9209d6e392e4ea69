package cache

import "testing"

func baseInputs() Inputs {
	return Inputs{
		InterpreterVersion: "3.11.4",
		SourceFiles: []FileHash{
			{Path: "a/x.py", Sum: 1},
			{Path: "a/y.py", Sum: 2},
		},
		DependencyPins:   []string{"foo==1.0"},
		FileDependencies: map[string][]byte{"lock.toml": []byte("data")},
		EnvDependencies:  map[string]string{"CI": ""},
		Action:           "check",
	}
}

func TestComputeDeterministic(t *testing.T) {
	a := Compute(baseInputs())
	b := Compute(baseInputs())
	if a != b {
		t.Fatalf("expected identical fingerprints, got %s vs %s", a, b)
	}
}

func TestComputeOrderIndependent(t *testing.T) {
	in := baseInputs()
	reversed := baseInputs()
	reversed.SourceFiles = []FileHash{
		{Path: "a/y.py", Sum: 2},
		{Path: "a/x.py", Sum: 1},
	}
	if Compute(in) != Compute(reversed) {
		t.Fatal("expected fingerprint independent of input file ordering")
	}
}

func TestComputeSensitiveToFileContent(t *testing.T) {
	in := baseInputs()
	changed := baseInputs()
	changed.SourceFiles[0].Sum = 999
	if Compute(in) == Compute(changed) {
		t.Fatal("expected fingerprint to change when a file hash changes")
	}
}

func TestComputeSensitiveToEnvValue(t *testing.T) {
	in := baseInputs()
	changed := baseInputs()
	changed.EnvDependencies = map[string]string{"CI": "true"}
	if Compute(in) == Compute(changed) {
		t.Fatal("expected fingerprint to change when an env dependency value changes")
	}
}

func TestComputeSensitiveToAction(t *testing.T) {
	in := baseInputs()
	changed := baseInputs()
	changed.Action = "test"
	if Compute(in) == Compute(changed) {
		t.Fatal("expected fingerprint to change when the action label changes")
	}
}

func TestComputeUnaffectedByUnrelatedDependencyOrder(t *testing.T) {
	in := baseInputs()
	in.DependencyPins = []string{"foo==1.0", "bar==2.0"}
	reordered := baseInputs()
	reordered.DependencyPins = []string{"bar==2.0", "foo==1.0"}
	if Compute(in) != Compute(reordered) {
		t.Fatal("expected fingerprint independent of dependency pin ordering")
	}
}
