package typesystem

import (
	"testing"
)

func TestVarianceFlipAndCompose(t *testing.T) {
	tests := []struct {
		name     string
		position Variance
		param    Variance
		want     Variance
	}{
		{"out in out", Out, Out, Out},
		{"out in in", Out, In, In},
		{"in in in", In, In, Out},
		{"in in out", In, Out, In},
		{"invariant param", Out, Invariant, Invariant},
		{"invariant position", Invariant, Out, Invariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.position.Compose(tt.param); got != tt.want {
				t.Errorf("%v.Compose(%v) = %v, want %v", tt.position, tt.param, got, tt.want)
			}
		})
	}

	if Out.Flip() != In || In.Flip() != Out || Invariant.Flip() != Invariant {
		t.Errorf("Flip should swap in and out only")
	}
}

func TestRefKind(t *testing.T) {
	if RefNone.IsManagedReference() {
		t.Errorf("RefNone should not be a managed reference")
	}
	for _, r := range []RefKind{RefRef, RefOut, RefIn} {
		if !r.IsManagedReference() {
			t.Errorf("%v should be a managed reference", r)
		}
	}
	if RefRef.String() != "ref" || RefNone.String() != "" {
		t.Errorf("unexpected RefKind strings: %q %q", RefRef.String(), RefNone.String())
	}
}

func TestParseDefinitionKind(t *testing.T) {
	tests := []struct {
		input string
		want  TypeKind
		ok    bool
	}{
		{"class", KindClass, true},
		{"struct", KindStruct, true},
		{"interface", KindInterface, true},
		{"delegate", KindDelegate, true},
		{"array", KindUnknown, false},
		{"", KindUnknown, false},
	}

	for _, tt := range tests {
		got, ok := ParseDefinitionKind(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseDefinitionKind(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTypeKinds(t *testing.T) {
	animal := &Definition{Name: "Animal", Kind: KindClass}
	point := &Definition{Name: "Point", Kind: KindStruct}

	tests := []struct {
		name     string
		typ      Type
		wantKind TypeKind
		wantRef  bool
		wantVal  bool
	}{
		{"class", TCon{Def: animal}, KindClass, true, false},
		{"struct", TCon{Def: point}, KindStruct, false, true},
		{"array", TArray{Elem: With(TCon{Def: point}), Rank: 1}, KindArray, true, false},
		{"tuple", TTuple{Elements: []TypeWithAnnotation{With(TCon{Def: point})}}, KindTuple, false, true},
		{"nullable", TNullable{Elem: TCon{Def: point}}, KindNullable, false, true},
		{"pointer", TPointer{Elem: With(TCon{Def: point})}, KindPointer, false, false},
		{"function pointer", TFunc{}, KindFunctionPointer, false, false},
		{"function type", TFunctionType{}, KindFunctionType, true, false},
		{"error", TError{}, KindError, false, false},
		{"class-constrained variable", TVar{Name: "T", IsReference: true}, KindTypeParameter, true, false},
		{"base-constrained variable", TVar{Name: "T", Constraints: []Type{TCon{Def: animal}}}, KindTypeParameter, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Kind(); got != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", got, tt.wantKind)
			}
			if got := IsReferenceType(tt.typ); got != tt.wantRef {
				t.Errorf("IsReferenceType() = %v, want %v", got, tt.wantRef)
			}
			if got := IsValueType(tt.typ); got != tt.wantVal {
				t.Errorf("IsValueType() = %v, want %v", got, tt.wantVal)
			}
		})
	}

	if !IsReferenceLike(TFunc{}) {
		t.Errorf("function pointers should be reference-like")
	}
}
