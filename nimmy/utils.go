package nimmy

import "unicode"

func CreateInt(val int64) IntObj {
	return IntObj{Value: val}
}

func CreateFloat(val float64) FloatObj {
	return FloatObj{Value: val}
}

func CreateString(val string) StringObj {
	return StringObj{Value: val}
}

func CreateBool(val bool) BoolObj {
	return BoolObj{Value: val}
}

func CreateNil() NilObj {
	return NilObj{}
}

func isAlnumChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c)
}
