package cpu

// Sample programs shared by the cpu tests.

const progFactorial = `
// Computes 5! by a loop inside a called function.
main:
    PUSHL 5
    CALL factorial
    POP r0
    HALT

factorial:
    POP r1
    SET 1 r0
.loop:
    CMPL 1 r1
    JLE .end
    MUL r1 r0
    DEC r1
    JMP .loop
.end:
    PUSH r0
    RET
`

const progFibonacci = `
// Recursive fibonacci, argument and result passed on the data stack.
main:
    PUSHL 20
    CALL fibonacci
    POP r0
    HALT

fibonacci:
    POP r1
    CMPL 2 r1
    JLT .base
    PUSH r1          // save n
    SUBLA 1 r1
    PUSH r1
    CALL fibonacci
    POP r2           // fib(n-1)
    POP r1           // restore n
    PUSH r2
    SUBLA 2 r1
    PUSH r1
    CALL fibonacci
    POP r2           // fib(n-2)
    POP r3           // fib(n-1)
    ADD r3 r2
    PUSH r2
    RET
.base:
    PUSH r1
    RET
`

const progLoop = `
    SET 50 r0
    SET 0 r1
loop:
    ADD r0 r1
    DEC r0
    CMPL 0 r0
    JGT loop
    HALT
`

const progJumps = `
start:
    SET 8 r0
    SET 1 r7
    CMPL 5 r0
    JEQ fail
    JLT fail
    JLE fail
    JGE .ge
    JMP fail
.ge:
    JGT .gt
    JMP fail
.gt:
    JNE done
    JMP fail
fail:
    SET -1 r7
done:
    HALT
`

const progRegisterFrame = `
    SET 10 r0
    SET 11 r1
    SET 12 r2
    SET 13 r3
    SET 14 r4
    SET 15 r5
    SET 16 r6
    SET 17 r7
    PUSHRF 8
    SET 0 r0
    SET 0 r3
    SET 0 r7
    SET 99 r8
    POPRF 8
    HALT
`

// samplePrograms lists every sample with its expected final registers.
var samplePrograms = [](struct {
	name     string
	source   string
	register map[int]int64
}){
	{"factorial", progFactorial, map[int]int64{0: 120}},
	{"fibonacci", progFibonacci, map[int]int64{0: 6765}},
	{"loop", progLoop, map[int]int64{0: 0, 1: 1275}},
	{"jumps", progJumps, map[int]int64{7: 1}},
	{"frame", progRegisterFrame, map[int]int64{
		0: 10, 1: 11, 2: 12, 3: 13, 4: 14, 5: 15, 6: 16, 7: 17, 8: 99, 9: 0,
	}},
}
