package cpu

import "github.com/arn-dahl/gogba/gba/codec"

// armFamily is one of the A-mode instruction families. Bit patterns over
// bits 27-4 of several families overlap (the whole top-three-bits-zero
// region is shared by branch-exchange, multiply, halfword transfer, PSR
// transfer and plain data processing), so classifyARM tests the more
// specific patterns first.
type armFamily int

const (
	famDataProcessing armFamily = iota
	famPSRTransfer
	famMultiply
	famMultiplyLong
	famSwap
	famHalfwordTransfer
	famSingleTransfer
	famBlockTransfer
	famBranch
	famBranchExchange
	famSoftwareInterrupt
	famUndefined
)

// branchExchangeMask/Pattern recognize BX Rn regardless of condition code
// (the condition nibble, bits 31-28, falls outside the mask).
const (
	branchExchangeMask    uint32 = 0x0FFFFFF0
	branchExchangePattern uint32 = 0x012FFF10
)

func classifyARM(instr uint32) armFamily {
	if instr&branchExchangeMask == branchExchangePattern {
		return famBranchExchange
	}

	w := codec.Word(instr)
	top3 := w.Bits(27, 25)
	bit24, bit23 := w.Bit(24), w.Bit(23)
	bit21, bit20 := w.Bit(21), w.Bit(20)
	bit7, bit6, bit5, bit4 := w.Bit(7), w.Bit(6), w.Bit(5), w.Bit(4)

	// Bits 24-23 = "10" and bit 20 clear marks the shared MRS/MSR shape.
	// Bit 21 distinguishes read (MRS, 0) from write (MSR, 1), and each
	// direction carries its should-be-one field in a different nibble:
	// MRS has it in bits 19-16 (Rd is in 15-12), MSR has it in bits 15-12.
	var psrShouldBeOne bool
	if bit21 {
		psrShouldBeOne = w.Bits(15, 12) == 0xF
	} else {
		psrShouldBeOne = w.Bits(19, 16) == 0xF
	}
	psrTransferShape := bit24 && !bit23 && !bit20 && psrShouldBeOne

	switch top3 {
	case 0b000:
		switch {
		case w.Bits(27, 22) == 0 && w.Bits(7, 4) == 0b1001:
			return famMultiply
		case w.Bits(27, 23) == 0b00001 && w.Bits(7, 4) == 0b1001:
			return famMultiplyLong
		case w.Bits(27, 23) == 0b00010 && !bit21 && !bit20 && w.Bits(11, 4) == 0b00001001:
			return famSwap
		case bit7 && bit4 && (bit6 || bit5):
			return famHalfwordTransfer
		case psrTransferShape:
			return famPSRTransfer
		default:
			return famDataProcessing
		}
	case 0b001:
		if psrTransferShape && bit21 {
			return famPSRTransfer // MSR immediate; there is no MRS-immediate form
		}
		return famDataProcessing
	case 0b010:
		return famSingleTransfer // immediate offset
	case 0b011:
		if bit4 {
			return famUndefined // register-shifted-register offset is a reserved encoding here
		}
		return famSingleTransfer // register offset
	case 0b100:
		return famBlockTransfer
	case 0b101:
		return famBranch
	case 0b110:
		return famUndefined // coprocessor data transfer: not modeled
	case 0b111:
		if bit24 {
			return famSoftwareInterrupt
		}
		return famUndefined // coprocessor data operation / register transfer: not modeled
	default:
		return famUndefined
	}
}
