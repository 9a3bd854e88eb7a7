// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Statement is one assembled instruction with its source location.
type Statement struct {
	LineNo      int         // Source line number.
	Line        string      // Source line text.
	Ip          int         // Byte offset of the instruction.
	Scope       string      // Enclosing top-level label.
	Words       []string    // Operand words, after equate substitution.
	Instruction Instruction // Resolved instruction.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a two pass assembler for uvm programs.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of assembled statements.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of qualified labels to byte offsets.
	Equate    map[string]string // Map of equates.
}

// Assemble assembles source text into a program.
func Assemble(source string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(source))
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a literal word.
func valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrOperandKind
	}
	return
}

// registerOf decodes a 'r<N>' register word.
func registerOf(word string) (index int, is_register bool) {
	if len(word) < 2 || word[0] != 'r' {
		return
	}
	for _, c := range word[1:] {
		if c < '0' || c > '9' {
			return
		}
	}
	is_register = true
	index, err := strconv.Atoi(word[1:])
	if err != nil || index > 0xff {
		index = -1
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int64
		v, err = valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or labels.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var parenRegexp = regexp.MustCompile(`\$\([^\$]*\)`)

// expand replaces $() expressions with their values.
func (asm *Assembler) expand(line string, lineno int) (text string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	text = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})

	return
}

// directive handles a '.' prefixed directive.
func (asm *Assembler) directive(tok Token) (err error) {
	switch tok.Name {
	case ".equ":
		// .equ CONST VALUE
		if len(tok.Words) != 2 || !validName(tok.Words[0]) {
			err = ErrEquateSyntax
			return
		}
		name, value := tok.Words[0], tok.Words[1]
		if _, ok := asm.Equate[name]; ok {
			err = ErrEquateDuplicate
			return
		}
		if equate, ok := asm.Equate[value]; ok {
			value = equate
		}
		asm.Equate[name] = value
	default:
		err = ErrDirectiveUnknown
	}

	return
}

// define records a label at a byte offset.
func (asm *Assembler) define(label string, ip int) (err error) {
	if _, ok := asm.Label[label]; ok {
		err = ErrLabelDuplicate
		return
	}

	asm.Label[label] = ip

	if asm.Verbose {
		log.Printf("asm: %v = %#04x", label, ip)
	}

	return
}

// resolve finds the byte offset of a label reference.
// '.sub' references are qualified by the enclosing label.
func (asm *Assembler) resolve(word string, scope string) (addr int, err error) {
	name := word
	if strings.HasPrefix(word, ".") {
		if len(scope) == 0 {
			err = ErrLabelMissing(word)
			return
		}
		name = scope + word
	}

	addr, ok := asm.Label[name]
	if !ok {
		err = ErrLabelMissing(name)
	}

	return
}

// operands converts the words of a statement into typed operands.
func (asm *Assembler) operands(st *Statement) (operands []Operand, err error) {
	sig := st.Instruction.Opcode.Signature()
	if len(st.Words) != len(sig) {
		err = ErrOperandArity
		return
	}

	for n, kind := range sig {
		word := st.Words[n]
		index, is_register := registerOf(word)
		switch kind {
		case KIND_REGISTER:
			if !is_register || index < 0 {
				err = ErrOperandKind
				return
			}
			operands = append(operands, MakeRegister(index))
		case KIND_LITERAL:
			if is_register {
				err = ErrOperandKind
				return
			}
			var value int64
			value, err = valueOf(word)
			if err != nil {
				return
			}
			operands = append(operands, MakeLiteral(value))
		case KIND_ADDRESS:
			name := strings.TrimPrefix(word, ".")
			if is_register || !validName(name) {
				err = ErrOperandKind
				return
			}
			var addr int
			addr, err = asm.resolve(word, st.Scope)
			if err != nil {
				return
			}
			operands = append(operands, MakeAddress(uint64(addr)))
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Statement = asm.Statement[:0]
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	// Pass 1: byte offsets and the label table.
	var scope string
	var ip int
	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		var text string
		text, err = asm.expand(StripComment(line), lineno)
		if err != nil {
			return
		}

		var tok Token
		var ok bool
		tok, ok, err = Lex(lineno, text)
		if err != nil {
			return
		}
		if !ok {
			continue
		}

		switch tok.Kind {
		case TOKEN_LABEL:
			err = asm.define(tok.Name, ip)
			scope = tok.Name
		case TOKEN_SUBLABEL:
			if len(scope) == 0 {
				err = ErrSublabelOrphan
				return
			}
			err = asm.define(scope+tok.Name, ip)
		case TOKEN_DIRECTIVE:
			err = asm.directive(tok)
		case TOKEN_INSTRUCTION:
			op, ok := Lookup(tok.Name)
			if !ok {
				err = ErrMnemonicUnknown
				return
			}
			// Address operands name labels, never equates.
			sig := op.Signature()
			for n, word := range tok.Words {
				if n < len(sig) && sig[n] == KIND_ADDRESS {
					continue
				}
				if equate, ok := asm.Equate[word]; ok {
					tok.Words[n] = equate
				}
			}
			asm.Statement = append(asm.Statement, Statement{
				LineNo:      lineno,
				Line:        line,
				Ip:          ip,
				Scope:       scope,
				Words:       tok.Words,
				Instruction: Instruction{Opcode: op},
			})
			ip += op.Size()
		}
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Pass 2: resolve operands and encode.
	code := make([]byte, 0, ip)
	for n := range asm.Statement {
		st := &asm.Statement[n]
		lineno = st.LineNo
		line = st.Line

		st.Instruction.Operands, err = asm.operands(st)
		if err != nil {
			return
		}

		code = st.Instruction.Append(code)
	}

	prog = &Program{code: code}

	return
}

// Debug returns the statement containing the byte offset ip.
func (asm *Assembler) Debug(ip int) (st *Statement, ok bool) {
	for n := range asm.Statement {
		st = &asm.Statement[n]
		if ip >= st.Ip && ip < st.Ip+st.Instruction.Size() {
			ok = true
			return
		}
	}

	st = nil
	return
}
