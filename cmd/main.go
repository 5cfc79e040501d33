package main

import (
	"github.com/oms-labs/order-svc/internal/app"
	"github.com/oms-labs/order-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
