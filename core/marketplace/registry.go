package marketplace

import (
	"sync"

	"github.com/solgrid/fieldmatch/core/faults"
	"github.com/solgrid/fieldmatch/core/model"
)

// Directory is the in-memory registry of jobs and installers the manager
// operates on. Reads return copies.
type Directory struct {
	mu         sync.RWMutex
	jobs       map[string]model.Job
	installers map[string]model.Installer
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		jobs:       make(map[string]model.Job),
		installers: make(map[string]model.Installer),
	}
}

// PutJob validates and upserts a job.
func (d *Directory) PutJob(j model.Job) error {
	if err := j.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	d.jobs[j.ID] = j
	d.mu.Unlock()
	return nil
}

// Job returns the job by id.
func (d *Directory) Job(id string) (model.Job, error) {
	d.mu.RLock()
	j, ok := d.jobs[id]
	d.mu.RUnlock()
	if !ok {
		return model.Job{}, faults.NotFound("job", id)
	}
	return j, nil
}

// PutInstaller validates and upserts an installer.
func (d *Directory) PutInstaller(ins model.Installer) error {
	if err := ins.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	d.installers[ins.ID] = ins
	d.mu.Unlock()
	return nil
}

// Installer returns the installer by id.
func (d *Directory) Installer(id string) (model.Installer, error) {
	d.mu.RLock()
	ins, ok := d.installers[id]
	d.mu.RUnlock()
	if !ok {
		return model.Installer{}, faults.NotFound("installer", id)
	}
	return ins, nil
}

// Installers returns all registered installers.
func (d *Directory) Installers() []model.Installer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Installer, 0, len(d.installers))
	for _, ins := range d.installers {
		out = append(out, ins)
	}
	return out
}
