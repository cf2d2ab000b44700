package fenixv24

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exports zone telemetry as Prometheus metrics. Each
// scrape performs one zone poll; an empty smarthome counts as a failed
// scrape so dashboards can tell "vendor has no data" from stale gauges.
type MetricsCollector struct {
	client *Client

	temp        *prometheus.GaugeVec
	mode        *prometheus.GaugeVec
	setpoint    *prometheus.GaugeVec
	heatingUp   *prometheus.GaugeVec
	lastSuccess prometheus.Gauge
	success     prometheus.Gauge
}

func NewMetricsCollector(client *Client) *MetricsCollector {
	labels := []string{"zone_id", "zone_label", "device_id"}
	return &MetricsCollector{
		client: client,
		temp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fenixv24_temperature_celsius",
			Help: "Current air temperature per device",
		}, labels),
		mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fenixv24_mode_code",
			Help: "Current vendor mode code per device",
		}, labels),
		setpoint: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fenixv24_setpoint_vendor_units",
			Help: "Configured setpoints per device in vendor units (tenths of Fahrenheit)",
		}, append(labels, "kind")),
		heatingUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fenixv24_heating_up_bool",
			Help: "Whether the device is currently heating (1=heating, 0=idle)",
		}, labels),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fenixv24_last_success_timestamp_seconds",
			Help: "Last successful zone poll timestamp (epoch seconds)",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fenixv24_scrape_success",
			Help: "Last scrape success (1=ok, 0=error)",
		}),
	}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	c.temp.Describe(ch)
	c.mode.Describe(ch)
	c.setpoint.Describe(ch)
	c.heatingUp.Describe(ch)
	c.lastSuccess.Describe(ch)
	c.success.Describe(ch)
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	zones, err := c.client.Zones(ctx)
	if err != nil {
		c.success.Set(0)
		if errors.Is(err, ErrEmptyResponse) {
			c.resetGauges()
		}
		c.collectAll(ch)
		return
	}

	c.resetGauges()
	for _, zone := range zones {
		for _, device := range zone.Devices {
			labels := prometheus.Labels{
				"zone_id":    zone.ID,
				"zone_label": zone.Label,
				"device_id":  device.ID,
			}
			c.temp.With(labels).Set(device.TemperatureC)
			c.mode.With(labels).Set(float64(device.ModeCode))
			if device.HeatingUp {
				c.heatingUp.With(labels).Set(1)
			} else {
				c.heatingUp.With(labels).Set(0)
			}
			for kind, value := range device.Setpoints {
				c.setpoint.With(prometheus.Labels{
					"zone_id":    zone.ID,
					"zone_label": zone.Label,
					"device_id":  device.ID,
					"kind":       string(kind),
				}).Set(float64(value))
			}
		}
	}

	c.success.Set(1)
	c.lastSuccess.SetToCurrentTime()
	c.collectAll(ch)
}

func (c *MetricsCollector) resetGauges() {
	c.temp.Reset()
	c.mode.Reset()
	c.setpoint.Reset()
	c.heatingUp.Reset()
}

func (c *MetricsCollector) collectAll(ch chan<- prometheus.Metric) {
	c.temp.Collect(ch)
	c.mode.Collect(ch)
	c.setpoint.Collect(ch)
	c.heatingUp.Collect(ch)
	c.lastSuccess.Collect(ch)
	c.success.Collect(ch)
}
