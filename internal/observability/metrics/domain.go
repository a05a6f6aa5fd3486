// Package metrics provides Prometheus instrumentation for spyglass.
package metrics

// RPCRequest records one proxied JSON-RPC request.
func RPCRequest(method string) {
	if !enabled {
		return
	}
	rpcRequestsTotal.WithLabelValues(method).Inc()
}

// RPCUpstreamError records one failed call to the upstream node.
func RPCUpstreamError() {
	if !enabled {
		return
	}
	rpcUpstreamErrorsTotal.Inc()
}

// DeploymentTracked records one deployment correlation attempt.
func DeploymentTracked(outcome string) {
	if !enabled {
		return
	}
	deploymentsTrackedTotal.WithLabelValues(outcome).Inc()
}

// StateInjection records one explorer page served with injected state.
func StateInjection() {
	if !enabled {
		return
	}
	stateInjectionsTotal.Inc()
}
