package message

import (
	"testing"
)

func TestNewCanonicalizesIntegers(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"int fits 32 bits", int(7), int32(7)},
		{"negative int", int(-3), int32(-3)},
		{"int overflowing 32 bits", int(1 << 40), int64(1 << 40)},
		{"int8", int8(-5), int32(-5)},
		{"int16", int16(300), int32(300)},
		{"uint8", uint8(200), int32(200)},
		{"uint16", uint16(60000), int32(60000)},
		{"uint32", uint32(4000000000), int64(4000000000)},
		{"int32 unchanged", int32(9), int32(9)},
		{"int64 unchanged", int64(9), int64(9)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := New("/test", tc.in)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if msg.Arguments[0] != tc.want {
				t.Errorf("got %T(%v), want %T(%v)",
					msg.Arguments[0], msg.Arguments[0], tc.want, tc.want)
			}
		})
	}
}

func TestNewKeepsFloatAndIntDistinct(t *testing.T) {
	msg, err := New("/test", float64(120), int32(120), float32(120))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := msg.Arguments[0].(float64); !ok {
		t.Errorf("argument 0 is %T, want float64", msg.Arguments[0])
	}
	if _, ok := msg.Arguments[1].(int32); !ok {
		t.Errorf("argument 1 is %T, want int32", msg.Arguments[1])
	}
	if _, ok := msg.Arguments[2].(float32); !ok {
		t.Errorf("argument 2 is %T, want float32", msg.Arguments[2])
	}
}

func TestNewRejectsUnsupportedTypes(t *testing.T) {
	if _, err := New("/test", []byte("blob")); err == nil {
		t.Fatal("expected error for []byte argument")
	}
	if _, err := New("/test", struct{ X int }{1}); err == nil {
		t.Fatal("expected error for struct argument")
	}
	if _, err := New("/test", nil); err == nil {
		t.Fatal("expected error for nil argument")
	}
}

func TestArgumentsAccessors(t *testing.T) {
	args := Arguments{int32(3), int64(1 << 40), float32(1.5), float64(2.5), "drums", true, int32(0)}

	if v, err := args.Int(0); err != nil || v != 3 {
		t.Errorf("Int(0) = %d, %v", v, err)
	}
	if v, err := args.Int(1); err != nil || v != 1<<40 {
		t.Errorf("Int(1) = %d, %v", v, err)
	}
	if v, err := args.Float(2); err != nil || v != 1.5 {
		t.Errorf("Float(2) = %g, %v", v, err)
	}
	if v, err := args.Float(3); err != nil || v != 2.5 {
		t.Errorf("Float(3) = %g, %v", v, err)
	}
	if v, err := args.String(4); err != nil || v != "drums" {
		t.Errorf("String(4) = %q, %v", v, err)
	}
	if v, err := args.Bool(5); err != nil || v != true {
		t.Errorf("Bool(5) = %v, %v", v, err)
	}
	// Integer-coded booleans, the way Live reports is_playing.
	if v, err := args.Bool(6); err != nil || v != false {
		t.Errorf("Bool(6) = %v, %v", v, err)
	}
	if v, err := args.Bool(0); err != nil || v != true {
		t.Errorf("Bool(0) = %v, %v", v, err)
	}
}

func TestArgumentsAccessorErrors(t *testing.T) {
	args := Arguments{"name", float32(1)}

	if _, err := args.Int(0); err == nil {
		t.Error("Int on a string should fail")
	}
	if _, err := args.Int(1); err == nil {
		t.Error("Int on a float should fail: kinds must not cross-coerce")
	}
	if _, err := args.Float(0); err == nil {
		t.Error("Float on a string should fail")
	}
	if _, err := args.String(1); err == nil {
		t.Error("String on a float should fail")
	}
	if _, err := args.Int(5); err == nil {
		t.Error("out-of-range index should fail")
	}
	if _, err := args.Float(-1); err == nil {
		t.Error("negative index should fail")
	}
}
