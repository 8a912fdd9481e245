package registro

// Assemble converts the complete field set into the transmittable payload plus
// the attached files. "otro" selections are substituted by their free-text
// override and only the fields relevant to each selected country are included.
// Assembly is atomic: it is only called on a fully validated wizard.
func (c Campos) Assemble() (NewRegistro, []Archivo) {
	nr := NewRegistro{
		Curso:             c.Curso,
		Nombre:            c.Nombre,
		ApellidoPaterno:   c.ApellidoPaterno,
		ApellidoMaterno:   c.ApellidoMaterno,
		TelefonoCelular:   c.TelefonoCelular,
		CorreoElectronico: c.Correo,
		EstadoCivil:       otherOr(c.EstadoCivil, c.EstadoCivilOtro),
		GradoEstudios:     otherOr(c.GradoEstudios, c.GradoEstudiosOtro),
		FechaNacimiento:   c.FechaNacimiento,

		CalleDomicilio:   c.CalleDomicilio,
		NumeroExterior:   c.NumeroExterior,
		NumeroInterior:   c.NumeroInterior,
		ColoniaDomicilio: c.ColoniaDomicilio,
		CodigoPostal:     c.CodigoPostal,

		FamiliarNombre:       c.FamiliarNombre,
		FamiliarParentesco:   otherOr(c.FamiliarParentesco, c.FamiliarParentescoOtro),
		FamiliarTelefono:     c.FamiliarTelefono,
		FamiliarCalle:        c.FamiliarCalle,
		FamiliarNumero:       c.FamiliarNumero,
		FamiliarColonia:      c.FamiliarColonia,
		FamiliarCodigoPostal: c.FamiliarCP,

		EmergenciaNombre:     c.EmergenciaNombre,
		EmergenciaParentesco: otherOr(c.EmergenciaParentesco, c.EmergenciaParentescoOtro),
		EmergenciaTelefono:   c.EmergenciaTelefono,
	}

	switch c.Nacimiento.Pais {
	case PaisMexico:
		nr.PaisNacimiento = string(PaisMexico)
		nr.EstadoNacimiento = c.Nacimiento.Estado
		nr.MunicipioNacimiento = c.Nacimiento.Municipio
	case PaisEstadosUnidos:
		nr.PaisNacimiento = string(PaisEstadosUnidos)
		nr.EstadoNacimiento = c.Nacimiento.Estado
	case PaisOtro:
		nr.PaisNacimiento = c.Nacimiento.OtroPais
		nr.LugarNacimiento = c.Nacimiento.Detalle
	}

	switch c.Domicilio.Pais {
	case PaisMexico:
		nr.PaisDomicilio = string(PaisMexico)
		nr.EstadoDomicilio = c.Domicilio.Estado
		nr.MunicipioDomicilio = c.Domicilio.Municipio
	case PaisEstadosUnidos:
		nr.PaisDomicilio = string(PaisEstadosUnidos)
		nr.EstadoDomicilio = c.Domicilio.Estado
	case PaisOtro:
		nr.PaisDomicilio = c.Domicilio.OtroPais
		nr.EstadoDomicilio = c.Domicilio.Detalle
	}

	switch c.FamiliarDomicilio.Pais {
	case PaisMexico:
		nr.FamiliarPais = string(PaisMexico)
		nr.FamiliarEstado = c.FamiliarDomicilio.Estado
		nr.FamiliarMunicipio = c.FamiliarDomicilio.Municipio
	case PaisEstadosUnidos:
		nr.FamiliarPais = string(PaisEstadosUnidos)
		nr.FamiliarEstado = c.FamiliarDomicilio.Estado
	case PaisOtro:
		nr.FamiliarPais = c.FamiliarDomicilio.OtroPais
		nr.FamiliarEstado = c.FamiliarDomicilio.Detalle
	}

	archivos := make([]Archivo, 0, 3)
	if c.INE != nil {
		a := *c.INE
		a.Campo = CampoINE
		archivos = append(archivos, a)
	}
	if c.ActaNacimiento != nil {
		a := *c.ActaNacimiento
		a.Campo = CampoActaNacimiento
		archivos = append(archivos, a)
	}
	if c.ComprobanteDomicilio != nil {
		a := *c.ComprobanteDomicilio
		a.Campo = CampoComprobanteDomicilio
		archivos = append(archivos, a)
	}

	return nr, archivos
}

func otherOr(value, override string) string {
	if value == OpcionOtro {
		return override
	}
	return value
}
