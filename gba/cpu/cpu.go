// Package cpu implements the dual-instruction-set processor core: the
// 37-slot banked register file, the packed program status word, the
// barrel shifter, A-mode and T-mode decode and execution, and interrupt
// entry.
package cpu

import "github.com/arn-dahl/gogba/gba/membus"

// Architectural no-op sentinels: A-mode `MOV R0,R0` and its T-mode
// equivalent. Both pipeline slots are initialized to the sentinel
// matching the active instruction set, and a fetched word equal to the
// sentinel causes a tick to advance the PC without any other effect.
const (
	ArmNOP   uint32 = 0xE1A00000
	ThumbNOP uint32 = 0x46C0
)

// Exception vectors.
const (
	vectorUndefined uint32 = 0x04
	vectorSWI       uint32 = 0x08
	vectorIRQ       uint32 = 0x18
	vectorFIQ       uint32 = 0x1C
)

// CPU is the processor core: register file, current pipeline contents,
// and the memory bus it fetches from and executes against.
type CPU struct {
	Regs RegisterFile

	decodeStage  uint32
	executeStage uint32
	flushed      bool // set by FlushPipeline during the current Step

	bus *membus.Bus
}

// New returns a CPU wired to bus and initialized by Reset.
func New(bus *membus.Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset puts the processor into its startup state: Supervisor mode, both
// interrupt sources masked, A-mode, PC at 0, and both pipeline slots
// holding the A-mode sentinel.
func (c *CPU) Reset() {
	c.Regs = RegisterFile{}
	c.Regs.SetCPSR(NewStatus())
	c.Regs.Set(c.Mode(), 15, 0)
	c.decodeStage = ArmNOP
	c.executeStage = ArmNOP
}

// Mode returns the processor's current privilege mode.
func (c *CPU) Mode() Mode { return c.Regs.CPSR().Mode() }

// Thumb reports whether the processor is currently in T-mode.
func (c *CPU) Thumb() bool { return c.Regs.CPSR().Thumb() }

// instrWidth is the fetch width of the active instruction set: 2 bytes in
// T-mode, 4 in A-mode.
func (c *CPU) instrWidth() uint32 {
	if c.Thumb() {
		return 2
	}
	return 4
}

func (c *CPU) sentinel() uint32 {
	if c.Thumb() {
		return ThumbNOP
	}
	return ArmNOP
}

// R reads logical register i. Reading the program counter (15) returns
// the raw stored value, which by pipeline construction already sits
// PC_of_executing+8 (A-mode) or +4 (T-mode) ahead of the instruction
// currently being interpreted.
func (c *CPU) R(i uint8) uint32 { return c.Regs.Get(c.Mode(), i) }

// RShiftOperand reads logical register i for use as a barrel-shifter
// operand or shift-amount source. When i is 15 and the shift amount is
// register-specified, the observed value is PC+12 (4 beyond the normal
// pipeline value).
func (c *CPU) RShiftOperand(i uint8, registerSpecifiedShift bool) uint32 {
	v := c.R(i)
	if i == 15 && registerSpecifiedShift {
		v += 4
	}
	return v
}

// SetR writes logical register i. Writing the program counter (15)
// rounds the value down to the current instruction width and flushes
// the pipeline.
func (c *CPU) SetR(i uint8, v uint32) {
	if i == 15 {
		c.SetPC(v)
		return
	}
	c.Regs.Set(c.Mode(), i, v)
}

// SetPC redirects the program counter non-sequentially: it rounds the
// target down to the current instruction width and flushes both
// pipeline slots to the sentinel.
func (c *CPU) SetPC(v uint32) {
	v &^= c.instrWidth() - 1
	c.Regs.Set(c.Mode(), 15, v)
	c.FlushPipeline()
}

// FlushPipeline clears both pipeline slots to the sentinel matching the
// current instruction set. Any non-sequential PC write must call this.
func (c *CPU) FlushPipeline() {
	c.decodeStage = c.sentinel()
	c.executeStage = c.sentinel()
	c.flushed = true
}

// PendingInstruction exposes the word that the next Step call will
// interpret — a soft-halt driver can read this and stop ticking on a
// zero word, a convention that is emulator-specific and not
// architectural.
func (c *CPU) PendingInstruction() uint32 { return c.executeStage }

// setMode transitions to m without altering any other status bits; the
// banked-register indirection means no value copying is required.
func (c *CPU) setMode(m Mode) {
	c.Regs.SetCPSR(c.Regs.CPSR().WithMode(m))
}

// Step advances the pipeline by exactly one instruction and returns a
// coarse per-instruction cycle count (this core does not model
// cycle-exact bus timing).
func (c *CPU) Step() int {
	if c.interruptPending() {
		c.enterException(ModeIRQ, vectorIRQ, false)
		return 3
	}

	instr := c.executeStage
	c.executeStage = c.decodeStage

	pc := c.Regs.Get(c.Mode(), 15)
	width := c.instrWidth()
	c.decodeStage = c.fetch(pc, width)
	c.flushed = false

	cycles := 1
	if instr != c.sentinel() {
		if c.Thumb() {
			cycles = c.executeThumb(uint16(instr))
		} else {
			cycles = c.executeARM(instr)
		}
	}
	// Sequential advance after execution, so the instruction above read PC
	// as its own address + 2 instruction widths; skipped when it flushed.
	if !c.flushed {
		c.Regs.Set(c.Mode(), 15, pc+width)
	}
	return cycles
}

func (c *CPU) fetch(pc, width uint32) uint32 {
	if width == 2 {
		return uint32(c.bus.ReadHalfWord(pc))
	}
	return c.bus.ReadWord(pc)
}

// interruptPending re-samples the IRQ condition at the start of every
// tick: the interrupt flag register is non-zero, the master enable is
// set, and the processor's own I mask is clear. This core's interrupt
// sources are all ordinary IRQs; no bus-level source raises the
// fast-interrupt (FIQ) line, so only the IRQ path is reachable here.
// enterException still accepts ModeFIQ for completeness and for direct
// testing of the fast-interrupt entry sequence.
func (c *CPU) interruptPending() bool {
	if c.Regs.CPSR().IRQDisabled() {
		return false
	}
	return c.bus.PendingInterrupt()
}

// enterException performs the shared exception-entry sequence: save the
// current status word into the target mode's saved-status slot, bank
// the link register with the return address, switch to A-mode, mask
// interrupts, flush the pipeline, and redirect the PC to vector.
//
// linkIsCurrentPC selects the link-register value: software interrupt and
// undefined instruction bank `PC − width` (PC − 4 in A-mode, PC − 2 in
// T-mode): the address of the instruction following the one that
// trapped, since PC sits two instructions ahead of it in that context;
// interrupt entry banks `PC − pipeline_offset + 4`, i.e. 4 past the
// address of the next not-yet-executed instruction.
func (c *CPU) enterException(mode Mode, vector uint32, linkIsCurrentPC bool) {
	cur := c.Regs.CPSR()
	pc := c.Regs.Get(c.Mode(), 15)

	var link uint32
	if linkIsCurrentPC {
		link = pc - c.instrWidth()
	} else {
		offset := uint32(8)
		if cur.Thumb() {
			offset = 4
		}
		link = pc - offset + 4
	}

	c.Regs.SetSPSR(mode, cur)
	next := cur.WithMode(mode).WithThumb(false).WithIRQDisabled(true)
	if mode == ModeFIQ {
		next = next.WithFIQDisabled(true)
	}
	c.Regs.SetCPSR(next)
	c.Regs.Set(mode, 14, link)
	c.FlushPipeline()
	c.Regs.Set(mode, 15, vector)
}
