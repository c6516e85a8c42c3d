package discovery

import (
	"fmt"
	"log"
	"strconv"

	"github.com/hashicorp/consul/api"

	"quiz-engine/internal/config"
)

type ServiceRegistry struct {
	client *api.Client
	cfg    *config.Config
}

func NewServiceRegistry(cfg *config.Config) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.Consul.Address

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}
	return &ServiceRegistry{client: client, cfg: cfg}, nil
}

// Register announces the HTTP service with a /health check.
func (sr *ServiceRegistry) Register() error {
	port, err := strconv.Atoi(sr.cfg.Server.Port)
	if err != nil {
		return fmt.Errorf("invalid HTTP port: %w", err)
	}

	registration := &api.AgentServiceRegistration{
		ID:      sr.serviceID(),
		Name:    sr.cfg.Consul.ServiceName,
		Port:    port,
		Address: sr.cfg.Consul.ServiceAddress,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", sr.cfg.Consul.ServiceAddress, sr.cfg.Server.Port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"quiz", "attempts", "http", "api"},
	}

	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service with Consul: %w", err)
	}
	log.Printf("Registered %s with Consul at %s", sr.cfg.Consul.ServiceName, sr.cfg.Consul.Address)
	return nil
}

func (sr *ServiceRegistry) Deregister() {
	if err := sr.client.Agent().ServiceDeregister(sr.serviceID()); err != nil {
		log.Printf("Consul deregister failed: %v", err)
	}
}

func (sr *ServiceRegistry) serviceID() string {
	return fmt.Sprintf("%s-%s", sr.cfg.Consul.ServiceName, sr.cfg.Consul.ServiceAddress)
}
