package validation

import "testing"

func TestFromAnyKinds(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want Kind
	}{
		{"nil", nil, KindAbsent},
		{"bool", true, KindBool},
		{"int", 42, KindInt},
		{"int64", int64(42), KindInt},
		{"uint", uint(7), KindInt},
		{"float64", 0.5, KindFloat},
		{"float32", float32(0.5), KindFloat},
		{"string", "sgd", KindString},
		{"int slice", []int{1, 2, 3}, KindArray},
		{"any slice", []interface{}{1, "a"}, KindArray},
		{"struct", struct{ X int }{1}, KindOpaque},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAny(tt.in)
			if got.Kind() != tt.want {
				t.Errorf("FromAny(%v).Kind() = %v, want %v", tt.in, got.Kind(), tt.want)
			}
		})
	}
}

func TestFromAnyPointerDeref(t *testing.T) {
	x := 3
	v := FromAny(&x)
	if !v.IsInt() || v.IntVal() != 3 {
		t.Errorf("pointer should dereference to int 3, got %v", v)
	}

	var p *int
	if !FromAny(p).IsAbsent() {
		t.Error("nil pointer should map to absent")
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"empty slice", []int{}, true},
		{"nonempty string", "x", false},
		{"nonempty slice", []int{1}, false},
		{"zero int", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromAny(tt.in).IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b interface{}
		want bool
	}{
		{"int vs int", 5, 5, true},
		// 数値同士は種別をまたいで比較する
		{"int vs float", 5, 5.0, true},
		{"int vs other int", 5, 6, false},
		{"string", "adam", "adam", true},
		{"bool vs int", true, 1, false},
		{"arrays equal", []int{1, 2}, []float64{1, 2}, true},
		{"arrays length mismatch", []int{1, 2}, []int{1, 2, 3}, false},
		{"absent vs absent", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromAny(tt.a).Equal(FromAny(tt.b)); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValueCompare(t *testing.T) {
	tests := []struct {
		name       string
		a, b       interface{}
		want       int
		comparable bool
	}{
		{"int less", 1, 2, -1, true},
		{"float greater", 2.5, 2.0, 1, true},
		{"mixed equal", 2, 2.0, 0, true},
		{"strings", "a", "b", -1, true},
		{"string vs int", "a", 1, 0, false},
		{"bool not comparable", true, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromAny(tt.a).Compare(FromAny(tt.b))
			if ok != tt.comparable {
				t.Fatalf("Compare(%v, %v) comparable = %v, want %v", tt.a, tt.b, ok, tt.comparable)
			}
			if ok && got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	if got := FromAny(nil).String(); got != "None" {
		t.Errorf("absent String() = %q, want %q", got, "None")
	}
	if got := FromAny([]int{1, 2}).String(); got != "[1, 2]" {
		t.Errorf("array String() = %q, want %q", got, "[1, 2]")
	}
}
