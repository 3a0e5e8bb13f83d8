package as5050a

import "testing"

func TestCommandFrame(t *testing.T) {
	// Reading the angle register is the all-ones frame from the datasheet.
	if got := commandFrame(regAngularData, true); got != 0xFFFF {
		t.Errorf("angular data read frame: got %#04x, want 0xFFFF", got)
	}

	// Master reset is a write: no read flag, address in bits 14..1, and the
	// parity bit keeps the popcount even.
	got := commandFrame(regMasterReset, false)
	if got&0x8000 != 0 {
		t.Errorf("write frame has read flag set: %#04x", got)
	}
	if (got>>1)&0x3FFF != regMasterReset {
		t.Errorf("frame address: got %#04x, want %#04x", (got>>1)&0x3FFF, regMasterReset)
	}
	if parity(got) != 0 {
		t.Errorf("frame parity not even: %#04x", got)
	}
}

func TestVerifyFrame(t *testing.T) {
	// An angle of 600 ticks in bits 11..2, even parity, no error flag.
	res := uint16(600) << 2
	res |= parity(res >> 1)
	if !verifyFrame(res) {
		t.Errorf("valid frame %#04x rejected", res)
	}

	if verifyFrame(res ^ 0x0400) {
		t.Errorf("corrupt frame %#04x accepted", res^0x0400)
	}

	withError := res | 0x0002
	withError = withError&^0x0001 | parity(withError>>1)
	if verifyFrame(withError) {
		t.Errorf("frame with command error flag accepted: %#04x", withError)
	}
}

func TestDummyWraps(t *testing.T) {
	fwd := Dummy(10)
	for i := 0; i < 103; i++ {
		fwd.Update()
	}
	if got := fwd.Raw(); got != (103*10)%Resolution {
		t.Errorf("forward dummy angle: got %d, want %d", got, (103*10)%Resolution)
	}

	back := Dummy(-10)
	back.Update()
	if got := back.Raw(); got != Resolution-10 {
		t.Errorf("backward dummy angle: got %d, want %d", got, Resolution-10)
	}
}
