package metrics

import (
	"testing"
)

func TestRegisterAndIncCounter(t *testing.T) {
	type args struct {
		serviceName string
		metricName  string
		increments  int
	}
	tests := []struct {
		name string
		args args
		want float64
	}{
		{
			name: "counter accumulates increments",
			args: args{
				serviceName: "test_service",
				metricName:  "login_requests_total",
				increments:  3,
			},
			want: 3,
		},
		{
			name: "unregistered counter is a no-op",
			args: args{
				serviceName: "test_service",
				metricName:  "never_registered_total",
				increments:  0,
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetrics(tt.args.serviceName)
			if tt.args.increments > 0 {
				m.RegisterCounter(tt.args.metricName, "help text")
			}
			for i := 0; i < tt.args.increments; i++ {
				m.IncCounter(tt.args.metricName)
			}
			// incrementing a name that was never registered must not panic
			m.IncCounter("never_registered_total")

			families, err := m.GetRegistry().Gather()
			if err != nil {
				t.Fatalf("Gather() error = %v", err)
			}
			var got float64
			for _, mf := range families {
				if mf.GetName() == tt.args.serviceName+"_"+tt.args.metricName {
					got = mf.GetMetric()[0].GetCounter().GetValue()
				}
			}
			if got != tt.want {
				t.Errorf("counter value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObserveHistogram(t *testing.T) {
	m := NewMetrics("test_service")
	m.RegisterHistogram("upload_duration_seconds", "help text", []float64{0.1, 1, 10})
	m.ObserveHistogram("upload_duration_seconds", 0.5)
	m.ObserveHistogram("upload_duration_seconds", 2)

	families, err := m.GetRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	var count uint64
	for _, mf := range families {
		if mf.GetName() == "test_service_upload_duration_seconds" {
			count = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	if count != 2 {
		t.Errorf("histogram sample count = %v, want 2", count)
	}
}
