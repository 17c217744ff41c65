package datatype

import "testing"

func f32le() *floatType { return &floatType{id: "f32", size: 4, endian: LittleEndian} }

func TestFloatDeanonymizeDecimal(t *testing.T) {
	ty := f32le()
	dv, err := ty.Deanonymize(DataTypeMetaData{}, AnonymousValue{Kind: Decimal, Text: "3.5"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ty.valueOf(dv.Bytes); got != 3.5 {
		t.Fatalf("got %v, want 3.5", got)
	}
}

func TestFloatEqualUsesTolerance(t *testing.T) {
	ty := f32le()
	imm := DataValue{Bytes: ty.encode(1.0)}
	scalar, err := ty.ScalarComparer(DataTypeMetaData{}, Equal, &imm, nil, FloatingPointTolerance(0.01))
	if err != nil {
		t.Fatal(err)
	}
	if !scalar(ty.encode(1.005), nil) {
		t.Error("1.005 should be within tolerance of 1.0")
	}
	if scalar(ty.encode(1.5), nil) {
		t.Error("1.5 should not be within tolerance of 1.0")
	}
}

func TestFloatOrderingIgnoresTolerance(t *testing.T) {
	ty := f32le()
	imm := DataValue{Bytes: ty.encode(1.0)}
	scalar, err := ty.ScalarComparer(DataTypeMetaData{}, GreaterThan, &imm, nil, FloatingPointTolerance(10))
	if err != nil {
		t.Fatal(err)
	}
	if !scalar(ty.encode(1.001), nil) {
		t.Error("ordering predicates must not be dulled by tolerance")
	}
}

func TestFloatDeltaModulo(t *testing.T) {
	ty := f32le()
	x := DataValue{Bytes: ty.encode(3)}
	scalar, err := ty.ScalarComparer(DataTypeMetaData{}, ModuloByX, nil, &x, DefaultFloatTolerance)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar(ty.encode(1), ty.encode(7)) {
		t.Error("7 mod 3 should be 1")
	}
}

func TestFloatBitwiseDeltaPredicatesUnsupported(t *testing.T) {
	ty := f32le()
	x := DataValue{Bytes: ty.encode(1)}
	scalar, err := ty.ScalarComparer(DataTypeMetaData{}, ShiftLeftByX, nil, &x, DefaultFloatTolerance)
	if err != nil {
		t.Fatal(err)
	}
	if scalar(ty.encode(2), ty.encode(1)) {
		t.Error("bitwise delta predicates have no meaning for floats and must never match")
	}
}
