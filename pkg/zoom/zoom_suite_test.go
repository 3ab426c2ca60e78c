package zoom_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestZoom(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Zoom Suite")
}
