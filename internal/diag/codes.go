package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Syntax
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectType       Code = 2004
	SynExpectExpression Code = 2005
	SynUnclosedParen    Code = 2006
	SynUnclosedBrace    Code = 2007
	SynTooManyErrors    Code = 2008

	// Resolution (scopes, declarations, references)
	SemInfo              Code = 3000
	SemDuplicateClass    Code = 3001
	SemDuplicateFunction Code = 3002
	SemUnknownClass      Code = 3003
	SemUnknownName       Code = 3004
	SemUnknownField      Code = 3005
	SemUnknownMethod     Code = 3006
	SemUnknownFunction   Code = 3007
	SemNotAnObject       Code = 3008
	SemThisOutsideClass  Code = 3009
	SemCtorCallOutside   Code = 3010
	SemCtorCallNotFirst  Code = 3011
	SemNoMatchingCtor    Code = 3012
	SemParentNotClass    Code = 3013
	SemDuplicateVariable Code = 3014
	SemCyclicInheritance Code = 3015

	// Type checking
	TypInfo           Code = 4000
	TypAssignMismatch Code = 4001
	TypNumericOperand Code = 4002
	TypBooleanOperand Code = 4003
	TypIntegerOperand Code = 4004
	TypCompoundAssign Code = 4005
	TypNotAssignable  Code = 4006

	// Structural validation
	ValInfo              Code = 5000
	ValBreakOutsideLoop  Code = 5001
	ValReturnOutsideFunc Code = 5002
	ValReturnInCtor      Code = 5003
	ValMissingReturn     Code = 5004
	ValNestedClass       Code = 5005

	// I/O
	IOLoadFileError Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Invalid numeric literal",
	LexBadEscape:                "Invalid escape sequence",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expected semicolon",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected type",
	SynExpectExpression:         "Expected expression",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynTooManyErrors:            "Too many syntax errors",
	SemInfo:                     "Semantic information",
	SemDuplicateClass:           "Duplicate class",
	SemDuplicateFunction:        "Duplicate function signature",
	SemUnknownClass:             "Unknown class",
	SemUnknownName:              "Unknown variable or function",
	SemUnknownField:             "Unknown field",
	SemUnknownMethod:            "Unknown method",
	SemUnknownFunction:          "Unknown function",
	SemNotAnObject:              "Member access on non-object",
	SemThisOutsideClass:         "this/super outside of a class",
	SemCtorCallOutside:          "this()/super() outside of a constructor",
	SemCtorCallNotFirst:         "this()/super() must be the first statement",
	SemNoMatchingCtor:           "No matching constructor",
	SemParentNotClass:           "Parent is not a class",
	SemDuplicateVariable:        "Duplicate variable",
	SemCyclicInheritance:        "Cyclic inheritance",
	TypInfo:                     "Type information",
	TypAssignMismatch:           "Incompatible assignment",
	TypNumericOperand:           "Operand must be numeric",
	TypBooleanOperand:           "Operand must be boolean",
	TypIntegerOperand:           "Operand must be integer",
	TypCompoundAssign:           "Invalid compound assignment",
	TypNotAssignable:            "Expression is not assignable",
	ValInfo:                     "Validation information",
	ValBreakOutsideLoop:         "break outside of a loop",
	ValReturnOutsideFunc:        "return outside of a function",
	ValReturnInCtor:             "return with a value in a constructor",
	ValMissingReturn:            "Missing return statement",
	ValNestedClass:              "Class declared inside a function",
	IOLoadFileError:             "Failed to load file",
}

func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("VAL%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return c.ID()
}
