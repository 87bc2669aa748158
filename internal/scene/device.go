package scene

// Device owns graphics memory backing meshes.
type Device interface {
	// Upload allocates GPU buffers for the mesh and stores them in m.GPU.
	Upload(m *Mesh) error
	// Release frees the mesh's GPU buffers and clears m.GPU.
	Release(m *Mesh)
}

// UploadAll uploads every mesh in the subtree that has no GPU buffers yet.
func UploadAll(root *Node, dev Device) error {
	if root == nil || dev == nil {
		return nil
	}
	for _, n := range root.Meshes() {
		if n.Mesh.GPU != nil {
			continue
		}
		if err := dev.Upload(n.Mesh); err != nil {
			return err
		}
	}
	return nil
}

// Dispose releases the GPU buffers of every mesh in the subtree and marks
// their materials released. Shared materials are released once.
func Dispose(root *Node, dev Device) {
	if root == nil {
		return
	}
	for _, n := range root.Meshes() {
		m := n.Mesh
		if m.GPU != nil && dev != nil {
			dev.Release(m)
		}
		m.GPU = nil
		if m.Material != nil {
			m.Material.released = true
		}
	}
}
