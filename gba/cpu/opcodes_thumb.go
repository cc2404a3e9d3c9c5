package cpu

import "github.com/arn-dahl/gogba/gba/codec"

// executeThumb interprets a single T-mode instruction halfword. T-mode
// has no per-instruction condition field outside the conditional-branch
// format, so every instruction reaching here (other than a conditional
// branch whose own predicate fails) executes unconditionally.
func (c *CPU) executeThumb(instr uint16) int {
	w := codec.Word(uint32(instr))

	switch {
	case w.Bits(15, 11) == 0b00011:
		return c.thumbAddSubtract(instr)
	case w.Bits(15, 13) == 0b000:
		return c.thumbMoveShifted(instr)
	case w.Bits(15, 13) == 0b001:
		return c.thumbImmediateOp(instr)
	case w.Bits(15, 10) == 0b010000:
		return c.thumbALU(instr)
	case w.Bits(15, 10) == 0b010001:
		return c.thumbHiRegisterOp(instr)
	case w.Bits(15, 11) == 0b01001:
		return c.thumbPCRelativeLoad(instr)
	case w.Bits(15, 12) == 0b0101 && !w.Bit(9):
		return c.thumbLoadStoreRegisterOffset(instr)
	case w.Bits(15, 12) == 0b0101 && w.Bit(9):
		return c.thumbLoadStoreSignExtended(instr)
	case w.Bits(15, 13) == 0b011:
		return c.thumbLoadStoreImmediateOffset(instr)
	case w.Bits(15, 12) == 0b1000:
		return c.thumbLoadStoreHalfword(instr)
	case w.Bits(15, 12) == 0b1001:
		return c.thumbSPRelativeLoadStore(instr)
	case w.Bits(15, 12) == 0b1010:
		return c.thumbLoadAddress(instr)
	case w.Bits(15, 8) == 0b10110000:
		return c.thumbAdjustSP(instr)
	case w.Bits(15, 12) == 0b1011 && w.Bits(10, 9) == 0b10:
		return c.thumbPushPop(instr)
	case w.Bits(15, 12) == 0b1100:
		return c.thumbLoadStoreMultiple(instr)
	case w.Bits(15, 8) == 0b11011111:
		return c.thumbSoftwareInterrupt(instr)
	case w.Bits(15, 12) == 0b1101:
		return c.thumbConditionalBranch(instr)
	case w.Bits(15, 11) == 0b11100:
		return c.thumbUnconditionalBranch(instr)
	case w.Bits(15, 12) == 0b1111:
		return c.thumbLongBranchLink(instr)
	default:
		return c.armUndefined(uint32(instr))
	}
}

func (c *CPU) thumbMoveShifted(instr uint16) int {
	w := codec.Word(uint32(instr))
	op := w.Bits(12, 11)
	amount := uint8(w.Bits(10, 6))
	rs := uint8(w.Bits(5, 3))
	rd := uint8(w.Bits(2, 0))

	cpsr := c.Regs.CPSR()
	var kind ShiftType
	switch op {
	case 0:
		kind = ShiftLSL
	case 1:
		kind = ShiftLSR
	default:
		kind = ShiftASR
	}
	result, carryOut := Shift(kind, c.R(rs), amount, true, cpsr.C())
	c.Regs.SetCPSR(cpsr.WithNZ(result).WithC(carryOut))
	c.SetR(rd, result)
	return 1
}

func (c *CPU) thumbAddSubtract(instr uint16) int {
	w := codec.Word(uint32(instr))
	immediate := w.Bit(10)
	subtract := w.Bit(9)
	field := uint8(w.Bits(8, 6))
	rs := uint8(w.Bits(5, 3))
	rd := uint8(w.Bits(2, 0))

	a := c.R(rs)
	var b uint32
	if immediate {
		b = uint32(field)
	} else {
		b = c.R(field)
	}

	var result uint32
	var carryOut, overflow bool
	if subtract {
		result, carryOut, overflow = addWithCarry(a, ^b, true)
	} else {
		result, carryOut, overflow = addWithCarry(a, b, false)
	}
	c.Regs.SetCPSR(c.Regs.CPSR().WithNZ(result).WithC(carryOut).WithV(overflow))
	c.SetR(rd, result)
	return 1
}

// thumbImmOp is the 2-bit operation selector of format 3 (move / compare
// / add / subtract immediate).
const (
	thumbImmMOV = iota
	thumbImmCMP
	thumbImmADD
	thumbImmSUB
)

func (c *CPU) thumbImmediateOp(instr uint16) int {
	w := codec.Word(uint32(instr))
	op := w.Bits(12, 11)
	rd := uint8(w.Bits(10, 8))
	imm := w.Bits(7, 0)

	a := c.R(rd)
	var result uint32
	var carryOut, overflow bool
	write := true

	switch op {
	case thumbImmMOV:
		result = imm
		c.Regs.SetCPSR(c.Regs.CPSR().WithNZ(result))
	case thumbImmCMP:
		result, carryOut, overflow = addWithCarry(a, ^imm, true)
		c.Regs.SetCPSR(c.Regs.CPSR().WithNZ(result).WithC(carryOut).WithV(overflow))
		write = false
	case thumbImmADD:
		result, carryOut, overflow = addWithCarry(a, imm, false)
		c.Regs.SetCPSR(c.Regs.CPSR().WithNZ(result).WithC(carryOut).WithV(overflow))
	case thumbImmSUB:
		result, carryOut, overflow = addWithCarry(a, ^imm, true)
		c.Regs.SetCPSR(c.Regs.CPSR().WithNZ(result).WithC(carryOut).WithV(overflow))
	}

	if write {
		c.SetR(rd, result)
	}
	return 1
}

// thumbALUOp is the 4-bit opcode of format 4 (ALU operations).
const (
	thumbALUAND = iota
	thumbALUEOR
	thumbALULSL
	thumbALULSR
	thumbALUASR
	thumbALUADC
	thumbALUSBC
	thumbALUROR
	thumbALUTST
	thumbALUNEG
	thumbALUCMP
	thumbALUCMN
	thumbALUORR
	thumbALUMUL
	thumbALUBIC
	thumbALUMVN
)

func (c *CPU) thumbALU(instr uint16) int {
	w := codec.Word(uint32(instr))
	op := w.Bits(9, 6)
	rs := uint8(w.Bits(5, 3))
	rd := uint8(w.Bits(2, 0))

	cpsr := c.Regs.CPSR()
	a := c.R(rd)
	b := c.R(rs)

	var result uint32
	var carryOut, overflow bool
	write := true

	switch op {
	case thumbALUAND:
		result = a & b
	case thumbALUEOR:
		result = a ^ b
	case thumbALULSL:
		result, carryOut = Shift(ShiftLSL, a, uint8(b), false, cpsr.C())
	case thumbALULSR:
		result, carryOut = Shift(ShiftLSR, a, uint8(b), false, cpsr.C())
	case thumbALUASR:
		result, carryOut = Shift(ShiftASR, a, uint8(b), false, cpsr.C())
	case thumbALUADC:
		result, carryOut, overflow = addWithCarry(a, b, cpsr.C())
	case thumbALUSBC:
		result, carryOut, overflow = addWithCarry(a, ^b, cpsr.C())
	case thumbALUROR:
		result, carryOut = Shift(ShiftROR, a, uint8(b), false, cpsr.C())
	case thumbALUTST:
		result = a & b
		write = false
	case thumbALUNEG:
		result, carryOut, overflow = addWithCarry(0, ^b, true)
	case thumbALUCMP:
		result, carryOut, overflow = addWithCarry(a, ^b, true)
		write = false
	case thumbALUCMN:
		result, carryOut, overflow = addWithCarry(a, b, false)
		write = false
	case thumbALUORR:
		result = a | b
	case thumbALUMUL:
		result = a * b
	case thumbALUBIC:
		result = a &^ b
	case thumbALUMVN:
		result = ^b
	}

	next := cpsr.WithNZ(result)
	switch op {
	case thumbALULSL, thumbALULSR, thumbALUASR, thumbALUROR:
		next = next.WithC(carryOut)
	case thumbALUADC, thumbALUSBC, thumbALUNEG, thumbALUCMP, thumbALUCMN:
		next = next.WithC(carryOut).WithV(overflow)
	}
	c.Regs.SetCPSR(next)

	if write {
		c.SetR(rd, result)
	}
	return 1
}

func (c *CPU) thumbHiRegisterOp(instr uint16) int {
	w := codec.Word(uint32(instr))
	op := w.Bits(9, 8)
	h1 := w.Bit(7)
	h2 := w.Bit(6)
	rs := uint8(w.Bits(5, 3))
	rd := uint8(w.Bits(2, 0))
	if h2 {
		rs += 8
	}
	if h1 {
		rd += 8
	}

	switch op {
	case 0b00: // ADD
		c.SetR(rd, c.R(rd)+c.R(rs))
	case 0b01: // CMP
		result, carryOut, overflow := addWithCarry(c.R(rd), ^c.R(rs), true)
		c.Regs.SetCPSR(c.Regs.CPSR().WithNZ(result).WithC(carryOut).WithV(overflow))
	case 0b10: // MOV
		c.SetR(rd, c.R(rs))
	case 0b11: // BX
		target := c.R(rs)
		c.Regs.SetCPSR(c.Regs.CPSR().WithThumb(target&1 != 0))
		c.SetR(15, target&^1)
	}
	return 1
}

func (c *CPU) thumbPCRelativeLoad(instr uint16) int {
	w := codec.Word(uint32(instr))
	rd := uint8(w.Bits(10, 8))
	word8 := w.Bits(7, 0)

	base := (c.R(15) &^ 3) + word8*4
	c.SetR(rd, c.bus.ReadWord(base))
	return 1
}

func (c *CPU) thumbLoadStoreRegisterOffset(instr uint16) int {
	w := codec.Word(uint32(instr))
	load := w.Bit(11)
	byteAccess := w.Bit(10)
	ro := uint8(w.Bits(8, 6))
	rb := uint8(w.Bits(5, 3))
	rd := uint8(w.Bits(2, 0))

	address := c.R(rb) + c.R(ro)
	if load {
		if byteAccess {
			c.SetR(rd, uint32(c.bus.ReadByte(address)))
		} else {
			c.SetR(rd, c.alignedReadWord(address))
		}
	} else {
		if byteAccess {
			c.bus.WriteByte(address, byte(c.R(rd)))
		} else {
			c.bus.WriteWord(address, c.R(rd))
		}
	}
	return 1
}

func (c *CPU) thumbLoadStoreSignExtended(instr uint16) int {
	w := codec.Word(uint32(instr))
	hFlag := w.Bit(11)
	signExtend := w.Bit(10)
	ro := uint8(w.Bits(8, 6))
	rb := uint8(w.Bits(5, 3))
	rd := uint8(w.Bits(2, 0))

	address := c.R(rb) + c.R(ro)
	switch {
	case !signExtend && !hFlag: // STRH
		c.bus.WriteHalfWord(address, uint16(c.R(rd)))
	case !signExtend && hFlag: // LDRH
		c.SetR(rd, uint32(c.bus.ReadHalfWord(address)))
	case signExtend && !hFlag: // LDSB
		c.SetR(rd, uint32(int32(int8(c.bus.ReadByte(address)))))
	default: // LDSH
		c.SetR(rd, uint32(int32(int16(c.bus.ReadHalfWord(address)))))
	}
	return 1
}

func (c *CPU) thumbLoadStoreImmediateOffset(instr uint16) int {
	w := codec.Word(uint32(instr))
	byteAccess := w.Bit(12)
	load := w.Bit(11)
	offset5 := w.Bits(10, 6)
	rb := uint8(w.Bits(5, 3))
	rd := uint8(w.Bits(2, 0))

	var offset uint32
	if byteAccess {
		offset = offset5
	} else {
		offset = offset5 * 4
	}
	address := c.R(rb) + offset

	if load {
		if byteAccess {
			c.SetR(rd, uint32(c.bus.ReadByte(address)))
		} else {
			c.SetR(rd, c.alignedReadWord(address))
		}
	} else {
		if byteAccess {
			c.bus.WriteByte(address, byte(c.R(rd)))
		} else {
			c.bus.WriteWord(address, c.R(rd))
		}
	}
	return 1
}

func (c *CPU) thumbLoadStoreHalfword(instr uint16) int {
	w := codec.Word(uint32(instr))
	load := w.Bit(11)
	offset5 := w.Bits(10, 6)
	rb := uint8(w.Bits(5, 3))
	rd := uint8(w.Bits(2, 0))

	address := c.R(rb) + offset5*2
	if load {
		c.SetR(rd, uint32(c.bus.ReadHalfWord(address)))
	} else {
		c.bus.WriteHalfWord(address, uint16(c.R(rd)))
	}
	return 1
}

func (c *CPU) thumbSPRelativeLoadStore(instr uint16) int {
	w := codec.Word(uint32(instr))
	load := w.Bit(11)
	rd := uint8(w.Bits(10, 8))
	word8 := w.Bits(7, 0)

	address := c.R(13) + word8*4
	if load {
		c.SetR(rd, c.alignedReadWord(address))
	} else {
		c.bus.WriteWord(address, c.R(rd))
	}
	return 1
}

func (c *CPU) thumbLoadAddress(instr uint16) int {
	w := codec.Word(uint32(instr))
	useSP := w.Bit(11)
	rd := uint8(w.Bits(10, 8))
	word8 := w.Bits(7, 0)

	var base uint32
	if useSP {
		base = c.R(13)
	} else {
		base = c.R(15) &^ 3
	}
	c.SetR(rd, base+word8*4)
	return 1
}

func (c *CPU) thumbAdjustSP(instr uint16) int {
	w := codec.Word(uint32(instr))
	negative := w.Bit(7)
	word7 := w.Bits(6, 0) * 4

	sp := c.R(13)
	if negative {
		c.SetR(13, sp-word7)
	} else {
		c.SetR(13, sp+word7)
	}
	return 1
}

func (c *CPU) thumbPushPop(instr uint16) int {
	w := codec.Word(uint32(instr))
	load := w.Bit(11)
	includeExtra := w.Bit(8) // LR on push, PC on pop
	list := uint8(w.Bits(7, 0))

	var regs []uint8
	for i := uint8(0); i < 8; i++ {
		if list&(1<<i) != 0 {
			regs = append(regs, i)
		}
	}

	sp := c.R(13)
	if load {
		address := sp
		for _, reg := range regs {
			c.SetR(reg, c.bus.ReadWord(address))
			address += 4
		}
		if includeExtra {
			c.SetR(15, c.bus.ReadWord(address)&^1)
			address += 4
		}
		c.SetR(13, address)
	} else {
		count := uint32(len(regs))
		if includeExtra {
			count++
		}
		address := sp - count*4
		c.SetR(13, address)
		for _, reg := range regs {
			c.bus.WriteWord(address, c.R(reg))
			address += 4
		}
		if includeExtra {
			c.bus.WriteWord(address, c.R(14))
		}
	}
	return int(len(regs)) + 1
}

func (c *CPU) thumbLoadStoreMultiple(instr uint16) int {
	w := codec.Word(uint32(instr))
	load := w.Bit(11)
	rb := uint8(w.Bits(10, 8))
	list := uint8(w.Bits(7, 0))

	var regs []uint8
	for i := uint8(0); i < 8; i++ {
		if list&(1<<i) != 0 {
			regs = append(regs, i)
		}
	}

	address := c.R(rb)
	if load {
		for _, reg := range regs {
			c.SetR(reg, c.bus.ReadWord(address))
			address += 4
		}
	} else {
		for _, reg := range regs {
			c.bus.WriteWord(address, c.R(reg))
			address += 4
		}
	}
	c.SetR(rb, address)
	return int(len(regs))
}

func (c *CPU) thumbConditionalBranch(instr uint16) int {
	w := codec.Word(uint32(instr))
	cond := Condition(w.Bits(11, 8))
	offset8 := w.Bits(7, 0)

	if cond == CondAL {
		// 0b1110 is not "always" in this format (that's the unconditional
		// branch encoding) — it's a reserved/undefined condition.
		return c.armUndefined(uint32(instr))
	}

	if !cond.Satisfied(c.Regs.CPSR()) {
		return 1
	}
	delta := int32(codec.Word(offset8).SignExtend(8)) << 1
	c.SetR(15, uint32(int32(c.R(15))+delta))
	return 3
}

func (c *CPU) thumbSoftwareInterrupt(instr uint16) int {
	c.enterException(ModeSupervisor, vectorSWI, true)
	return 3
}

func (c *CPU) thumbUnconditionalBranch(instr uint16) int {
	w := codec.Word(uint32(instr))
	offset11 := w.Bits(10, 0)
	delta := codec.Word(offset11).SignExtend(11) << 1
	c.SetR(15, uint32(int32(c.R(15))+delta))
	return 3
}

// thumbLongBranchLink implements format 19's two-instruction sequence:
// the first half stores the high 11 bits of a 22-bit signed offset into
// the link register (relative to the current PC); the second half adds
// the low 11 bits (shifted left 1) to that base, jumps there, and
// leaves the return address in the link register with bit 0 set.
func (c *CPU) thumbLongBranchLink(instr uint16) int {
	w := codec.Word(uint32(instr))
	low := w.Bit(11)
	offset11 := w.Bits(10, 0)

	if !low {
		hi := codec.Word(offset11).SignExtend(11) << 12
		c.SetR(14, uint32(int32(c.R(15))+hi))
		return 1
	}

	base := c.R(14)
	target := base + offset11*2
	returnAddr := (c.R(15) - 2) | 1
	c.SetR(14, returnAddr)
	c.SetR(15, target)
	return 3
}
