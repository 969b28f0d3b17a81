package grid_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGridScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Grid Scenario Suite")
}
