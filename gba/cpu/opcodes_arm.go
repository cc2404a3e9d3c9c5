package cpu

import "github.com/arn-dahl/gogba/gba/codec"

// executeARM interprets a single A-mode instruction word: evaluates its
// condition predicate, classifies its family, and dispatches to the
// matching handler. All handlers assume the condition has already
// passed.
func (c *CPU) executeARM(instr uint32) int {
	w := codec.Word(instr)
	cond := Condition(w.Bits(31, 28))
	if !cond.Satisfied(c.Regs.CPSR()) {
		return 1
	}

	switch classifyARM(instr) {
	case famBranchExchange:
		return c.armBranchExchange(instr)
	case famSoftwareInterrupt:
		return c.armSoftwareInterrupt(instr)
	case famBranch:
		return c.armBranch(instr)
	case famBlockTransfer:
		return c.armBlockTransfer(instr)
	case famSingleTransfer:
		return c.armSingleTransfer(instr)
	case famHalfwordTransfer:
		return c.armHalfwordTransfer(instr)
	case famSwap:
		return c.armSwap(instr)
	case famMultiply:
		return c.armMultiply(instr)
	case famMultiplyLong:
		return c.armMultiplyLong(instr)
	case famPSRTransfer:
		return c.armPSRTransfer(instr)
	case famDataProcessing:
		return c.armDataProcessing(instr)
	default:
		return c.armUndefined(instr)
	}
}

// dpOpcode is the 4-bit data-processing operation selector, bits 24-21.
type dpOpcode uint8

const (
	dpAND dpOpcode = iota
	dpEOR
	dpSUB
	dpRSB
	dpADD
	dpADC
	dpSBC
	dpRSC
	dpTST
	dpTEQ
	dpCMP
	dpCMN
	dpORR
	dpMOV
	dpBIC
	dpMVN
)

func addWithCarry(a, b uint32, carryIn bool) (result uint32, carryOut, overflow bool) {
	cin := uint64(0)
	if carryIn {
		cin = 1
	}
	sum := uint64(a) + uint64(b) + cin
	result = uint32(sum)
	carryOut = sum > 0xFFFFFFFF
	overflow = ((a^result)&(b^result))&0x80000000 != 0
	return
}

// operand2 decodes a data-processing/PSR-transfer-shaped instruction's
// second operand: either an 8-bit immediate rotated right by twice a
// 4-bit field, or a shifted register. It returns the computed value and
// the shifter carry.
func (c *CPU) operand2(instr uint32, carryIn bool) (uint32, bool) {
	w := codec.Word(instr)
	if w.Bit(25) {
		imm := w.Bits(7, 0)
		rotate := uint8(w.Bits(11, 8)) * 2
		if rotate == 0 {
			return imm, carryIn
		}
		rotated, carryOut := codec.Word(imm).RotateRightCarry(rotate)
		return uint32(rotated), carryOut
	}

	rm := uint8(w.Bits(3, 0))
	shiftType := ShiftType(w.Bits(6, 5))
	registerSpecified := w.Bit(4)

	var amount uint8
	if registerSpecified {
		rs := uint8(w.Bits(11, 8))
		amount = uint8(c.R(rs))
	} else {
		amount = uint8(w.Bits(11, 7))
	}

	value := c.RShiftOperand(rm, registerSpecified)
	return Shift(shiftType, value, amount, !registerSpecified, carryIn)
}

func (c *CPU) armDataProcessing(instr uint32) int {
	w := codec.Word(instr)
	opcode := dpOpcode(w.Bits(24, 21))
	setFlags := w.Bit(20)
	rn := uint8(w.Bits(19, 16))
	rd := uint8(w.Bits(15, 12))

	cpsr := c.Regs.CPSR()
	op2, shifterCarry := c.operand2(instr, cpsr.C())
	rnVal := c.R(rn)

	var result uint32
	var carryOut, overflow bool
	logical := true

	switch opcode {
	case dpAND, dpTST:
		result = rnVal & op2
	case dpEOR, dpTEQ:
		result = rnVal ^ op2
	case dpORR:
		result = rnVal | op2
	case dpMOV:
		result = op2
	case dpBIC:
		result = rnVal &^ op2
	case dpMVN:
		result = ^op2
	case dpADD, dpCMN:
		logical = false
		result, carryOut, overflow = addWithCarry(rnVal, op2, false)
	case dpADC:
		logical = false
		result, carryOut, overflow = addWithCarry(rnVal, op2, cpsr.C())
	case dpSUB, dpCMP:
		logical = false
		result, carryOut, overflow = addWithCarry(rnVal, ^op2, true)
	case dpSBC:
		logical = false
		result, carryOut, overflow = addWithCarry(rnVal, ^op2, cpsr.C())
	case dpRSB:
		logical = false
		result, carryOut, overflow = addWithCarry(op2, ^rnVal, true)
	case dpRSC:
		logical = false
		result, carryOut, overflow = addWithCarry(op2, ^rnVal, cpsr.C())
	}

	if setFlags && rd != 15 {
		next := cpsr.WithNZ(result)
		if logical {
			next = next.WithC(shifterCarry)
		} else {
			next = next.WithC(carryOut).WithV(overflow)
		}
		c.Regs.SetCPSR(next)
	}

	switch opcode {
	case dpTST, dpTEQ, dpCMP, dpCMN:
		return 1 // flags only; Rd is never written
	}

	if setFlags && rd == 15 {
		// Exception return: restore the saved status word. The open
		// question of whether this also writes the result is resolved
		// in favor of doing both, matching the real processor's
		// behavior (data processing always writes Rd; S=1,Rd=15
		// additionally restores CPSR from SPSR).
		c.Regs.SetCPSR(c.Regs.SPSR(c.Mode()))
	}
	c.SetR(rd, result)
	return 1
}

func (c *CPU) armPSRTransfer(instr uint32) int {
	w := codec.Word(instr)
	useSPSR := w.Bit(22)
	isWrite := w.Bit(21)

	if !isWrite {
		rd := uint8(w.Bits(15, 12))
		var val Status
		if useSPSR {
			val = c.Regs.SPSR(c.Mode())
		} else {
			val = c.Regs.CPSR()
		}
		c.SetR(rd, uint32(val))
		return 1
	}

	var operand uint32
	if w.Bit(25) {
		imm := w.Bits(7, 0)
		rotate := uint8(w.Bits(11, 8)) * 2
		if rotate == 0 {
			operand = imm
		} else {
			rotated, _ := codec.Word(imm).RotateRightCarry(rotate)
			operand = uint32(rotated)
		}
	} else {
		rm := uint8(w.Bits(3, 0))
		operand = c.R(rm)
	}

	fieldMask := w.Bits(19, 16) // f,s,x,c selectors at bits 19,18,17,16
	writeFlags := fieldMask&0x8 != 0
	writeControl := fieldMask&0x1 != 0

	mode := c.Mode()
	var cur Status
	if useSPSR {
		cur = c.Regs.SPSR(mode)
	} else {
		cur = c.Regs.CPSR()
	}

	if writeControl && mode != ModeUser {
		cur = cur.WithControlByte(operand)
	}
	if writeFlags {
		cur = cur.WithFlagByte(operand)
	}

	if useSPSR {
		c.Regs.SetSPSR(mode, cur)
	} else {
		c.Regs.SetCPSR(cur)
	}
	return 1
}

func (c *CPU) armMultiply(instr uint32) int {
	w := codec.Word(instr)
	accumulate := w.Bit(21)
	setFlags := w.Bit(20)
	rd := uint8(w.Bits(19, 16))
	rn := uint8(w.Bits(15, 12)) // accumulate addend, despite the field name
	rs := uint8(w.Bits(11, 8))
	rm := uint8(w.Bits(3, 0))

	result := c.R(rm) * c.R(rs)
	if accumulate {
		result += c.R(rn)
	}
	if setFlags {
		c.Regs.SetCPSR(c.Regs.CPSR().WithNZ(result))
	}
	c.SetR(rd, result)
	return 2
}

func (c *CPU) armMultiplyLong(instr uint32) int {
	w := codec.Word(instr)
	signed := w.Bit(22)
	accumulate := w.Bit(21)
	setFlags := w.Bit(20)
	rdHi := uint8(w.Bits(19, 16))
	rdLo := uint8(w.Bits(15, 12))
	rs := uint8(w.Bits(11, 8))
	rm := uint8(w.Bits(3, 0))

	var product uint64
	if signed {
		product = uint64(int64(int32(c.R(rm))) * int64(int32(c.R(rs))))
	} else {
		product = uint64(c.R(rm)) * uint64(c.R(rs))
	}
	if accumulate {
		product += uint64(c.R(rdHi))<<32 | uint64(c.R(rdLo))
	}

	hi := uint32(product >> 32)
	lo := uint32(product)
	if setFlags {
		c.Regs.SetCPSR(c.Regs.CPSR().WithZ(product == 0).WithN(hi&0x80000000 != 0))
	}
	c.SetR(rdLo, lo)
	c.SetR(rdHi, hi)
	return 3
}

func (c *CPU) armSwap(instr uint32) int {
	w := codec.Word(instr)
	byteSwap := w.Bit(22)
	rn := uint8(w.Bits(19, 16))
	rd := uint8(w.Bits(15, 12))
	rm := uint8(w.Bits(3, 0))

	address := c.R(rn)
	if byteSwap {
		old := c.bus.ReadByte(address)
		c.bus.WriteByte(address, byte(c.R(rm)))
		c.SetR(rd, uint32(old))
	} else {
		old := c.alignedReadWord(address)
		c.bus.WriteWord(address, c.R(rm))
		c.SetR(rd, old)
	}
	return 2
}

// alignedReadWord implements the unaligned-load contract: a word read at
// an unaligned address is the aligned word rotated right by
// 8 * (address mod 4).
func (c *CPU) alignedReadWord(address uint32) uint32 {
	word := c.bus.ReadWord(address &^ 3)
	rot := uint8(address&3) * 8
	return uint32(codec.Word(word).RotateRight(rot))
}

func applyOffset(base, offset uint32, up bool) uint32 {
	if up {
		return base + offset
	}
	return base - offset
}

func (c *CPU) armHalfwordTransfer(instr uint32) int {
	w := codec.Word(instr)
	pre := w.Bit(24)
	up := w.Bit(23)
	immediateOffset := w.Bit(22)
	writeback := w.Bit(21)
	load := w.Bit(20)
	rn := uint8(w.Bits(19, 16))
	rd := uint8(w.Bits(15, 12))
	sh := w.Bits(6, 5)

	var offset uint32
	if immediateOffset {
		offset = w.Bits(11, 8)<<4 | w.Bits(3, 0)
	} else {
		offset = c.R(uint8(w.Bits(3, 0)))
	}

	base := c.R(rn)
	address := base
	if pre {
		address = applyOffset(base, offset, up)
	}

	if load {
		var value uint32
		switch sh {
		case 0b01:
			value = uint32(c.bus.ReadHalfWord(address))
		case 0b10:
			value = uint32(int32(int8(c.bus.ReadByte(address))))
		case 0b11:
			value = uint32(int32(int16(c.bus.ReadHalfWord(address))))
		}
		c.SetR(rd, value)
	} else {
		c.bus.WriteHalfWord(address, uint16(c.R(rd)))
	}

	if !pre {
		address = applyOffset(base, offset, up)
		c.Regs.Set(c.Mode(), rn, address) // post-indexed always writes back
	} else if writeback {
		c.Regs.Set(c.Mode(), rn, address)
	}
	return 1
}

func (c *CPU) armSingleTransfer(instr uint32) int {
	w := codec.Word(instr)
	registerOffset := w.Bit(25)
	pre := w.Bit(24)
	up := w.Bit(23)
	byteAccess := w.Bit(22)
	writeback := w.Bit(21)
	load := w.Bit(20)
	rn := uint8(w.Bits(19, 16))
	rd := uint8(w.Bits(15, 12))

	var offset uint32
	if registerOffset {
		rm := uint8(w.Bits(3, 0))
		shiftType := ShiftType(w.Bits(6, 5))
		amount := uint8(w.Bits(11, 7))
		offset, _ = Shift(shiftType, c.R(rm), amount, true, c.Regs.CPSR().C())
	} else {
		offset = w.Bits(11, 0)
	}

	base := c.R(rn)
	address := base
	if pre {
		address = applyOffset(base, offset, up)
	}

	if load {
		var value uint32
		if byteAccess {
			value = uint32(c.bus.ReadByte(address))
		} else {
			value = c.alignedReadWord(address)
		}
		c.SetR(rd, value)
	} else {
		value := c.R(rd)
		if byteAccess {
			c.bus.WriteByte(address, byte(value))
		} else {
			c.bus.WriteWord(address, value)
		}
		c.flushIfSelfModifying(address)
	}

	if !pre {
		address = applyOffset(base, offset, up)
		c.Regs.Set(c.Mode(), rn, address)
	} else if writeback {
		c.Regs.Set(c.Mode(), rn, address)
	}
	return 1
}

// flushIfSelfModifying applies a self-modifying-code heuristic: a store
// landing within two words of PC (the executing instruction's address + 8) is
// assumed to target code about to be fetched, and flushes the pipeline
// to avoid executing stale prefetched words.
func (c *CPU) flushIfSelfModifying(address uint32) {
	pc := int64(c.R(15))
	a := int64(address)
	if a >= pc-8 && a <= pc+8 {
		c.FlushPipeline()
	}
}

func (c *CPU) armBlockTransfer(instr uint32) int {
	w := codec.Word(instr)
	pre := w.Bit(24)
	up := w.Bit(23)
	userBank := w.Bit(22)
	writeback := w.Bit(21)
	load := w.Bit(20)
	rn := uint8(w.Bits(19, 16))
	mask := uint16(w.Bits(15, 0))

	var regs []uint8
	for i := uint8(0); i < 16; i++ {
		if mask&(1<<i) != 0 {
			regs = append(regs, i)
		}
	}
	if len(regs) == 0 {
		return 1
	}
	count := uint32(len(regs))
	base := c.R(rn)

	var start, writebackValue uint32
	switch {
	case up && !pre: // increment-after
		start, writebackValue = base, base+count*4
	case up && pre: // increment-before
		start, writebackValue = base+4, base+count*4
	case !up && !pre: // decrement-after
		start, writebackValue = base-count*4+4, base-count*4
	default: // decrement-before
		start, writebackValue = base-count*4, base-count*4
	}

	accessMode := c.Mode()
	if userBank {
		accessMode = ModeUser
	}

	address := start
	if load {
		for _, reg := range regs {
			value := c.bus.ReadWord(address)
			if reg == 15 {
				c.SetR(15, value)
			} else {
				c.Regs.Set(accessMode, reg, value)
			}
			address += 4
		}
		if userBank && mask&(1<<15) != 0 {
			c.Regs.SetCPSR(c.Regs.SPSR(c.Mode()))
		}
	} else {
		for i, reg := range regs {
			var value uint32
			switch {
			case reg != rn:
				value = c.Regs.Get(accessMode, reg)
			case i == 0:
				value = base // pre-writeback value
			default:
				value = writebackValue // base already "updated" by this point in the sequence
			}
			c.bus.WriteWord(address, value)
			address += 4
		}
	}

	if writeback {
		c.Regs.Set(c.Mode(), rn, writebackValue)
	}
	return int(count)
}

func (c *CPU) armBranch(instr uint32) int {
	w := codec.Word(instr)
	link := w.Bit(24)
	delta := w.SignExtend(24) << 2

	pc := c.R(15)
	if link {
		c.SetR(14, pc-4)
	}
	c.SetR(15, uint32(int32(pc)+delta))
	return 3
}

func (c *CPU) armBranchExchange(instr uint32) int {
	w := codec.Word(instr)
	rm := uint8(w.Bits(3, 0))
	target := c.R(rm)

	c.Regs.SetCPSR(c.Regs.CPSR().WithThumb(target&1 != 0))
	c.SetR(15, target&^1)
	return 3
}

func (c *CPU) armSoftwareInterrupt(instr uint32) int {
	c.enterException(ModeSupervisor, vectorSWI, true)
	return 3
}

func (c *CPU) armUndefined(instr uint32) int {
	c.enterException(ModeUndefined, vectorUndefined, true)
	return 3
}
