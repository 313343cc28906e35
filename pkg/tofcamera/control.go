package tofcamera

import "github.com/tauraamui/xerror"

// Control identifies a camera setting addressed through the generic
// set/get control calls. The hex values mirror the sensor vendor's
// control register map and must remain stable.
type Control int

const (
	ControlRange         Control = 0x00
	ControlFmtWidth      Control = 0x01
	ControlFmtHeight     Control = 0x02
	ControlMode          Control = 0x10
	ControlFrameMode     Control = 0x11
	ControlExposure      Control = 0x20
	ControlFrameRate     Control = 0x21
	ControlSkipFrame     Control = 0x70
	ControlSkipFrameLoop Control = 0x71
)

func (c Control) String() string {
	switch c {
	case ControlRange:
		return "range"
	case ControlFmtWidth:
		return "fmt_width"
	case ControlFmtHeight:
		return "fmt_height"
	case ControlMode:
		return "mode"
	case ControlFrameMode:
		return "frame_mode"
	case ControlExposure:
		return "exposure"
	case ControlFrameRate:
		return "frame_rate"
	case ControlSkipFrame:
		return "skip_frame"
	case ControlSkipFrameLoop:
		return "skip_frame_loop"
	}
	return "unknown"
}

// WorkMode selects the sensor's measurement strategy.
type WorkMode int

const (
	WorkModeSingleFreq WorkMode = iota
	WorkModeDoubleFreq
	WorkModeTripleFreq
	WorkModeQuadFreq
	WorkModeDistance
	WorkModeHDR
	WorkModeAE
	WorkModeBGOutdoor
	WorkModeGrayOnly
	WorkModeCustom1
	WorkModeCustom2
	WorkModeCustom3

	workModeCount
)

// FrameWorkMode selects the per-exposure sub frame layout for the
// active work mode.
type FrameWorkMode int

const (
	FrameWorkModeSingleFreq2Phase FrameWorkMode = iota
	FrameWorkModeSingleFreq4Phase
	FrameWorkModeSingleFreq4PhaseGray
	FrameWorkModeSingleFreq4PhaseBG
	FrameWorkModeSingleFreq4Phase4BG
	FrameWorkModeSingleFreq4PhaseGray5BG
	FrameWorkModeSingleFreqGrayBG4PhaseGrayBG
	FrameWorkModeSingleFreqGrayBG4PhaseBG
	FrameWorkModeSingleFreqBGGrayBG4Phase
	FrameWorkModeSingleFreqBG4PhaseBGGray
	FrameWorkModeDoubleFreq4Phase
	FrameWorkModeDoubleFreq4PhaseGray4PhaseBG
	FrameWorkModeDoubleFreq4Phase4BG
	FrameWorkModeDoubleFreq4PhaseGray5BG
	FrameWorkModeTripleFreq4Phase
	FrameWorkModeTripleFreq4PhaseGrayBG
	FrameWorkModeQuadFreq4Phase
	FrameWorkModeQuadFreq4PhaseGrayBG
	FrameWorkModeBGOutdoor
	FrameWorkModeGrayOnly
	FrameWorkModeCustom

	frameWorkModeCount
)

// Supported range control values in millimetres.
const (
	RangeNear = 2000
	RangeFar  = 4000
)

var (
	ErrUnknownControl  = xerror.New("unknown control id")
	ErrReadOnlyControl = xerror.New("control is read only")
	ErrControlValue    = xerror.New("unsupported control value")
)

func defaultControls() map[Control]int {
	return map[Control]int{
		ControlRange:         RangeFar,
		ControlMode:          int(WorkModeSingleFreq),
		ControlFrameMode:     int(FrameWorkModeSingleFreq4Phase),
		ControlExposure:      10000,
		ControlFrameRate:     30,
		ControlSkipFrame:     0,
		ControlSkipFrameLoop: 0,
	}
}

func validateControl(id Control, val int) error {
	switch id {
	case ControlRange:
		if val != RangeNear && val != RangeFar {
			return xerror.Errorf(
				"range control only supports %dmm and %dmm modes, got: %d",
				RangeNear, RangeFar, val,
			)
		}
	case ControlFmtWidth, ControlFmtHeight:
		return ErrReadOnlyControl
	case ControlMode:
		if val < 0 || val >= int(workModeCount) {
			return ErrControlValue
		}
	case ControlFrameMode:
		if val < 0 || val >= int(frameWorkModeCount) {
			return ErrControlValue
		}
	case ControlExposure:
		if val < 0 || val > 0xffff {
			return ErrControlValue
		}
	case ControlFrameRate:
		if val < 1 || val > 30 {
			return ErrControlValue
		}
	case ControlSkipFrame, ControlSkipFrameLoop:
		if val < 0 || val > 0xff {
			return ErrControlValue
		}
	default:
		return ErrUnknownControl
	}
	return nil
}
