package fenixv24

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
)

// Zone is one heating area as modeled by the vendor, containing one or
// more devices. Zones are rebuilt wholesale on every successful read;
// they are never partially updated.
type Zone struct {
	ID      string
	Label   string
	Devices []Device
}

// Device is an immutable snapshot of one heating unit. It is superseded
// wholesale by the next poll.
type Device struct {
	ID             string
	TemperatureRaw int     // tenths of degrees Fahrenheit, as reported
	TemperatureC   float64 // converted, rounded to one decimal
	ModeCode       Mode
	HeatingUp      bool
	Setpoints      map[Setpoint]int // vendor units, only kinds the device reported
	MinSetpoint    int
	MaxSetpoint    int
}

// Zones fetches and normalizes all zones for the account's smarthome.
// Depending on API version the vendor returns zones either as a list of
// objects carrying num_zone, or as a map keyed by zone id; both shapes
// yield the same ordered result (ascending num_zone for lists, document
// key order for maps). A payload with zero zones fails with
// ErrEmptyResponse.
func (c *Client) Zones(ctx context.Context) ([]Zone, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"smarthome_id": {c.smarthomeID},
		"lang":         {c.language},
	}
	data, err := c.postForm(ctx, readEndpoint, form, token, false)
	if err != nil {
		return nil, err
	}

	zones, err := parseZones(data, c.logger)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = zones
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("zones fetched", "smarthome_id", c.smarthomeID, "count", len(zones))
	}
	return zones, nil
}

type rawZone struct {
	NumZone *vendorInt      `json:"num_zone"`
	Label   vendorString    `json:"zone_label"`
	Devices json.RawMessage `json:"devices"`
}

func parseZones(data json.RawMessage, logger *slog.Logger) ([]Zone, error) {
	var payload struct {
		Zones json.RawMessage `json:"zones"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &NetworkError{Op: "decode zones", Err: err}
	}

	var zones []Zone
	switch firstByte(payload.Zones) {
	case '[':
		var raw []rawZone
		if err := json.Unmarshal(payload.Zones, &raw); err != nil {
			return nil, &NetworkError{Op: "decode zones", Err: err}
		}
		sort.SliceStable(raw, func(i, j int) bool {
			return zoneOrder(raw[i]) < zoneOrder(raw[j])
		})
		for _, rz := range raw {
			id := "unknown"
			if rz.NumZone != nil {
				id = strconv.Itoa(int(*rz.NumZone))
			}
			zones = append(zones, buildZone(id, rz, logger))
		}
	case '{':
		// Map-shaped responses carry the zone id as the key. Walk the
		// tokens instead of unmarshalling into a map so the document's
		// key order survives.
		dec := json.NewDecoder(bytes.NewReader(payload.Zones))
		if _, err := dec.Token(); err != nil {
			return nil, &NetworkError{Op: "decode zones", Err: err}
		}
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return nil, &NetworkError{Op: "decode zones", Err: err}
			}
			id, _ := key.(string)
			var rz rawZone
			if err := dec.Decode(&rz); err != nil {
				return nil, &NetworkError{Op: "decode zones", Err: err}
			}
			zones = append(zones, buildZone(id, rz, logger))
		}
	}

	if len(zones) == 0 {
		return nil, ErrEmptyResponse
	}
	return zones, nil
}

func zoneOrder(rz rawZone) int {
	if rz.NumZone == nil {
		return 0
	}
	return int(*rz.NumZone)
}

func buildZone(id string, rz rawZone, logger *slog.Logger) Zone {
	label := string(rz.Label)
	if label == "" {
		label = "Unknown"
	}
	return Zone{
		ID:      id,
		Label:   label,
		Devices: parseDevices(rz.Devices, id, logger),
	}
}

type rawDevice struct {
	ID          vendorString `json:"id_device"`
	Temperature *vendorInt   `json:"temperature_air"`
	NvMode      *vendorInt   `json:"nv_mode"`
	HeatingUp   vendorBool   `json:"heating_up"`
	Manual      *vendorInt   `json:"consigne_manuel"`
	Eco         *vendorInt   `json:"consigne_eco"`
	Comfort     *vendorInt   `json:"consigne_confort"`
	Antifreeze  *vendorInt   `json:"consigne_hg"`
	Boost       *vendorInt   `json:"consigne_boost"`
	MinSetpoint *vendorInt   `json:"min_set_point"`
	MaxSetpoint *vendorInt   `json:"max_set_point"`
}

// parseDevices tolerates both device collection shapes (list, or map keyed
// by index) and malformed entries: a device without id_device is dropped
// with a warning so one bad entry cannot invalidate a whole zone poll.
func parseDevices(raw json.RawMessage, zoneID string, logger *slog.Logger) []Device {
	var entries []rawDevice
	switch firstByte(raw) {
	case '[':
		if err := json.Unmarshal(raw, &entries); err != nil {
			if logger != nil {
				logger.Warn("unreadable device list", "zone", zoneID, "error", err)
			}
			return nil
		}
	case '{':
		dec := json.NewDecoder(bytes.NewReader(raw))
		if _, err := dec.Token(); err != nil {
			return nil
		}
		for dec.More() {
			if _, err := dec.Token(); err != nil {
				break
			}
			var rd rawDevice
			if err := dec.Decode(&rd); err != nil {
				if logger != nil {
					logger.Warn("unreadable device entry", "zone", zoneID, "error", err)
				}
				break
			}
			entries = append(entries, rd)
		}
	}

	devices := make([]Device, 0, len(entries))
	for _, rd := range entries {
		if rd.ID == "" {
			if logger != nil {
				logger.Warn("dropping device without id_device", "zone", zoneID)
			}
			continue
		}
		devices = append(devices, buildDevice(rd))
	}
	return devices
}

func buildDevice(rd rawDevice) Device {
	d := Device{
		ID:        string(rd.ID),
		HeatingUp: bool(rd.HeatingUp),
		Setpoints: make(map[Setpoint]int),
	}
	if rd.Temperature != nil {
		d.TemperatureRaw = int(*rd.Temperature)
		d.TemperatureC = ToCelsius(d.TemperatureRaw)
	}
	if rd.NvMode != nil {
		d.ModeCode = Mode(*rd.NvMode)
	}
	if rd.MinSetpoint != nil {
		d.MinSetpoint = int(*rd.MinSetpoint)
	}
	if rd.MaxSetpoint != nil {
		d.MaxSetpoint = int(*rd.MaxSetpoint)
	}
	for kind, value := range map[Setpoint]*vendorInt{
		SetpointManual:     rd.Manual,
		SetpointEco:        rd.Eco,
		SetpointComfort:    rd.Comfort,
		SetpointAntifreeze: rd.Antifreeze,
		SetpointBoost:      rd.Boost,
	} {
		if value != nil {
			d.Setpoints[kind] = int(*value)
		}
	}
	return d
}

// findDevice looks a device up in the latest snapshot.
func (c *Client) findDevice(deviceID string) (Device, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, zone := range c.snapshot {
		for _, device := range zone.Devices {
			if device.ID == deviceID {
				return device, true
			}
		}
	}
	return Device{}, false
}

func (c *Client) hasSnapshot() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot != nil
}

func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
