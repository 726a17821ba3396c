package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	invalidYamlPath := "./invalid_config.yaml"
	invalidContent := []byte("invalid: [unclosed_list\nanother: value")

	// Create invalid YAML file
	if err := os.WriteFile(invalidYamlPath, invalidContent, 0600); err != nil {
		panic("failed to create invalid YAML file: " + err.Error())
	}

	// Run tests
	code := m.Run()

	// Clean up
	os.Remove(invalidYamlPath)

	os.Exit(code)
}

func TestReadLocalConfig(t *testing.T) {
	type args struct {
		configPath string
	}
	tests := []struct {
		name    string
		args    args
		want    *ServiceConfig
		wantErr bool
	}{
		{
			name: "successful",
			args: args{
				configPath: "../res/config.yaml",
			},
			want: &ServiceConfig{
				ServiceName:  "obito",
				LogLevel:     "DEBUG",
				Host:         "localhost",
				Port:         "8000",
				TemplatesDir: "./res/templates",
				PublicDir:    "./res/public",
				Session: SessionConfig{
					Secret: "change-me-in-production",
					TTL:    Duration(24 * time.Hour),
				},
				Uploads: UploadsConfig{
					Dir:      "./uploads",
					MaxBytes: 33554432,
				},
				Database: Database{
					Type: "mongo",
					MongoDB: MongoDBConfig{
						DSN:              "mongodb://localhost:27017/obitoDB",
						DatabaseName:     "obitoDB",
						Timeout:          Duration(10 * time.Second),
						ValidCollections: []string{"users"},
						ValidFields:      []string{"username", "hashed_password"},
						Options: MongoServerOptions{
							APIVersion:           "1",
							SetStrict:            true,
							SetDeprecationErrors: true,
						},
					},
					Postgres: PostgresConfig{
						Options: PostgresServerOptions{
							MaxOpenConns:    10,
							MaxIdleConns:    5,
							ConnMaxLifetime: Duration(30 * time.Second),
						},
					},
				},
			},
			wantErr: false,
		},
		{
			name: "file does not exist",
			args: args{
				configPath: "",
			},
			want:    nil,
			wantErr: true,
		},
		{
			name: "invalid YAML file",
			args: args{
				configPath: "./invalid_config.yaml",
			},
			want:    nil,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLocalConfig(tt.args.configPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadLocalConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadLocalConfig() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadLocalConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvSessionSecret, "env-secret")
	t.Setenv(EnvMongoURI, "mongodb://elsewhere:27017/otherDB")

	got, err := ReadLocalConfig("../res/config.yaml")
	if err != nil {
		t.Fatalf("ReadLocalConfig() error = %v", err)
	}

	if got.Port != "9000" {
		t.Errorf("Port = %q, want %q", got.Port, "9000")
	}
	if got.Session.Secret != "env-secret" {
		t.Errorf("Session.Secret = %q, want %q", got.Session.Secret, "env-secret")
	}
	if got.Database.MongoDB.DSN != "mongodb://elsewhere:27017/otherDB" {
		t.Errorf("MongoDB.DSN = %q, want %q", got.Database.MongoDB.DSN, "mongodb://elsewhere:27017/otherDB")
	}
}

func TestListToMap(t *testing.T) {
	got := ListToMap([]string{"users", "sessions"})
	want := map[string]bool{"users": true, "sessions": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListToMap() = %v, want %v", got, want)
	}
}
