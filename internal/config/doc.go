// Package config holds the parameters of an edge-relay run.
//
// Defaults reproduce the fixed pipeline: read sample.jpg, blur with a 5x5
// kernel, Canny 50/150 with aperture 3, resize to 224x224 and send to
// 127.0.0.1:8080. A YAML file, a .env file and EDGE_RELAY_* environment
// variables can override them, in that order.
package config
