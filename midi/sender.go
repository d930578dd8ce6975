package midi

import (
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
	"go.uber.org/zap"
)

// Default gate time for activation notes.
const noteHold = 120 * time.Millisecond

// Sender emits module-activation notes and control changes on one
// MIDI output port. With no matching port it stays in log-only mode
// and every send is a silent no-op.
type Sender struct {
	log     *zap.Logger
	outPort drivers.Out
	send    func(msg gomidi.Message) error
}

// NewSender opens the first output port whose name contains portName
// (case-insensitive). An empty portName or no match is not an error.
func NewSender(portName string, log *zap.Logger) (*Sender, error) {
	s := &Sender{log: log}
	if portName == "" {
		return s, nil
	}

	outs := gomidi.GetOutPorts()
	for i, port := range outs {
		if strings.Contains(strings.ToLower(port.String()), strings.ToLower(portName)) {
			send, err := gomidi.SendTo(outs[i])
			if err != nil {
				return nil, err
			}
			s.outPort = outs[i]
			s.send = send
			log.Info("midi output open", zap.String("port", port.String()))
			return s, nil
		}
	}

	log.Warn("midi output not found, activations are log-only", zap.String("port", portName))
	return s, nil
}

// Activate plays one note for the module being activated. The note
// off is scheduled after the hold time.
func (s *Sender) Activate(channel, note uint8) error {
	if s.send == nil {
		return nil
	}
	if err := s.send(gomidi.NoteOn(channel, note, 0x64)); err != nil {
		return err
	}
	go func(ch, n uint8) {
		time.Sleep(noteHold)
		s.send(gomidi.NoteOff(ch, n))
	}(channel, note)
	return nil
}

// Control sends one control change message.
func (s *Sender) Control(channel, controller, value uint8) error {
	if s.send == nil {
		return nil
	}
	return s.send(gomidi.ControlChange(channel, controller, value))
}

func (s *Sender) Close() {
	if s.outPort != nil {
		s.outPort.Close()
	}
}
