package types

import (
	"encoding/json"
	"testing"

	"zombieland-server/internal/core/types/enums"
)

func TestAgentID_Index(t *testing.T) {
	tests := []struct {
		name string
		id   AgentID
		want uint16
	}{
		{"Index zero", AgentID(0), 0},
		{"Index simple", AgentID(42), 42},
		{"Index max", AgentID(maskIndex), maskIndex},
		{"Index masked correctly", AgentID(uint32(maskIndex) | (1 << shiftGen)), maskIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Index(); got != tt.want {
				t.Errorf("Index() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAgentID_Generation(t *testing.T) {
	tests := []struct {
		name string
		id   AgentID
		want uint16
	}{
		{"Generation zero", AgentID(0), 0},
		{"Generation simple", AgentID(uint32(1) << shiftGen), 1},
		{"Generation max", AgentID(uint32(maskGen) << shiftGen), maskGen},
		{"Generation ignores kind", AgentID(uint32(0xFFFF) << shiftGen), maskGen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Generation(); got != tt.want {
				t.Errorf("Generation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPackAgentID(t *testing.T) {
	tests := []struct {
		name  string
		kind  enums.AgentKind
		gen   uint16
		index uint16
	}{
		{"Player first slot", enums.AgentKindPlayer, 0, 0},
		{"Zombie simple", enums.AgentKindZombie, 3, 4},
		{"Max values", enums.AgentKindZombie, maskGen, maskIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := PackAgentID(tt.kind, tt.gen, tt.index)

			if id.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", id.Kind(), tt.kind)
			}
			if id.Generation() != tt.gen {
				t.Errorf("Generation() = %v, want %v", id.Generation(), tt.gen)
			}
			if id.Index() != tt.index {
				t.Errorf("Index() = %v, want %v", id.Index(), tt.index)
			}
			if id.IsNil() {
				t.Errorf("packed id of a real kind must not be nil")
			}
		})
	}
}

func TestPackAgentID_GenerationWraps(t *testing.T) {
	id := PackAgentID(enums.AgentKindPlayer, maskGen+1, 7)
	if id.Generation() != 0 {
		t.Errorf("Generation() = %d, want wrap to 0", id.Generation())
	}
	if id.Kind() != enums.AgentKindPlayer {
		t.Errorf("overflowing generation corrupted kind: %v", id.Kind())
	}
}

func TestAgentID_String(t *testing.T) {
	if s := NilAgentID.String(); s != "<nil>" {
		t.Errorf("String() for nil = %q", s)
	}
	if s := PackAgentID(enums.AgentKindZombie, 1, 2).String(); s != "[ZOMBIE gen=1 idx=2]" {
		t.Errorf("String() = %q", s)
	}
}

func TestAgentID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    AgentID
		wantErr bool
	}{
		{"String ID", `"123"`, 123, false},
		{"Number ID", `456`, 456, false},
		{"Empty string", `""`, NilAgentID, false},
		{"Null", `null`, NilAgentID, false},
		{"Invalid format", `"abc"`, 0, true},
		{"Overflow", `4294967296`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id AgentID
			err := id.UnmarshalJSON([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && id != tt.want {
				t.Errorf("UnmarshalJSON() = %v, want %v", id, tt.want)
			}
		})
	}
}

func FuzzAgentID_JSONRoundTrip(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(1))
	f.Add(^uint32(0))

	f.Fuzz(func(t *testing.T, raw uint32) {
		original := AgentID(raw)

		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}

		var decoded AgentID
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if decoded != original {
			t.Fatalf("round-trip mismatch: got %d, want %d", decoded, original)
		}
	})
}
