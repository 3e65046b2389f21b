// export_test.go exposes internals for black-box tests.
package generator

// SetEnviron replaces the environment used to look up the build toolchain.
func (p *Provisioner) SetEnviron(fn func() []string) {
	p.environ = fn
}
