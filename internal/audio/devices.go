package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Device describes an input-capable PortAudio device.
type Device struct {
	Name           string
	HostAPI        string
	InputChannels  int
	DefaultRate    float64
	IsDefaultInput bool
}

// ListInputDevices returns all devices with input channels.
func ListInputDevices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}

	var defaultIndex = -1
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultIndex = def.Index
	}

	var out []Device
	for _, dev := range devices {
		if dev == nil || dev.MaxInputChannels == 0 {
			continue
		}
		host := ""
		if dev.HostApi != nil {
			host = dev.HostApi.Name
		}
		out = append(out, Device{
			Name:           dev.Name,
			HostAPI:        host,
			InputChannels:  dev.MaxInputChannels,
			DefaultRate:    dev.DefaultSampleRate,
			IsDefaultInput: dev.Index == defaultIndex,
		})
	}
	return out, nil
}
