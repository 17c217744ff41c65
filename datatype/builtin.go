package datatype

// init registers the built-in type catalogue into Default as package-level
// values rather than requiring every caller to build one. Types enumerated
// here cover the full built-in catalogue (i32, i16be, f64, ...) plus the
// rest of each numeric family.
func init() {
	ints := []*integerType{
		{id: "i8", size: 1, signed: true, endian: LittleEndian},
		{id: "u8", size: 1, signed: false, endian: LittleEndian},
		{id: "i16", size: 2, signed: true, endian: LittleEndian},
		{id: "i16be", size: 2, signed: true, endian: BigEndian},
		{id: "u16", size: 2, signed: false, endian: LittleEndian},
		{id: "u16be", size: 2, signed: false, endian: BigEndian},
		{id: "i32", size: 4, signed: true, endian: LittleEndian},
		{id: "i32be", size: 4, signed: true, endian: BigEndian},
		{id: "u32", size: 4, signed: false, endian: LittleEndian},
		{id: "u32be", size: 4, signed: false, endian: BigEndian},
		{id: "i64", size: 8, signed: true, endian: LittleEndian},
		{id: "i64be", size: 8, signed: true, endian: BigEndian},
		{id: "u64", size: 8, signed: false, endian: LittleEndian},
		{id: "u64be", size: 8, signed: false, endian: BigEndian},
	}
	for _, it := range ints {
		Default.Register(it)
	}

	floats := []*floatType{
		{id: "f32", size: 4, endian: LittleEndian},
		{id: "f32be", size: 4, endian: BigEndian},
		{id: "f64", size: 8, endian: LittleEndian},
		{id: "f64be", size: 8, endian: BigEndian},
	}
	for _, ft := range floats {
		Default.Register(ft)
	}

	Default.Register(boolType{})
	Default.Register(stringUTF8Type{})
	Default.Register(byteArrayType{})
}
