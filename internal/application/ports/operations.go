package ports

// Catálogo fijo de operaciones del backend. Los nombres de campo son los del esquema remoto.

const itemFields = `
      id
      categoriaId
      ubicacionId
      codigoMaterial
      nombreMaterial
      descripcionMaterial
      cantidadStock
      localizacion
      unidadMedida`

const namedFields = `
      id
      nombre
      descripcion`

const receiptFields = `
      id
      itemId
      fecha
      recibidoDe
      codigoMaterial
      descripcionMaterial
      cantidadRecibida
      unidadMedida
      observaciones
      esSinRegistro`

const deliveryFields = `
      id
      itemId
      fecha
      entregadoA
      codigoMaterial
      descripcionMaterial
      cantidadEntregada
      unidadMedida
      observaciones
      esSinRegistro`

// Sesión.
var (
	OpLogin = Operation{Name: "Login", Document: `mutation Login($usuario: String!, $password: String!) {
    login(usuario: $usuario, password: $password)
  }`}
	OpPerfilActual = Operation{Name: "PerfilActual", Document: `query PerfilActual {
    perfilActual {
      id
      nombre
      nombreUsuario
      rol
    }
  }`}
)

// Consultas de colecciones y vistas derivadas.
var (
	OpItems = Operation{Name: "Items", Document: `query Items {
    items {` + itemFields + `
    }
  }`}
	OpCategorias = Operation{Name: "Categorias", Document: `query Categorias {
    categorias {` + namedFields + `
    }
  }`}
	OpUbicaciones = Operation{Name: "Ubicaciones", Document: `query Ubicaciones {
    ubicaciones {` + namedFields + `
    }
  }`}
	OpRecepciones = Operation{Name: "Recepciones", Document: `query Recepciones {
    recepciones {` + receiptFields + `
    }
  }`}
	OpEntregas = Operation{Name: "Entregas", Document: `query Entregas {
    entregas {` + deliveryFields + `
    }
  }`}
	OpReporteMensual = Operation{Name: "ReporteMensual", Document: `query ReporteMensual($desde: DateTime!, $hasta: DateTime!) {
    reporteMensual(desde: $desde, hasta: $hasta) {
      itemId
      codigoMaterial
      nombreMaterial
      descripcionMaterial
      totalEntradas
      totalSalidas
      totalEntradasSinRegistro
      totalSalidasSinRegistro
      stockDespuesBalance
      unidadMedida
    }
  }`}
	OpKardexPorCodigo = Operation{Name: "KardexPorCodigo", Document: `query KardexPorCodigo($codigoMaterial: String!, $itemId: String) {
    kardexPorCodigoMaterial(codigoMaterial: $codigoMaterial, itemId: $itemId) {
      codigoMaterial
      nombreMaterial
      stockActual
      movimientos {
        fecha
        tipo
        referencia
        descripcion
        observaciones
        cantidad
        unidadMedida
        origen
        registroId
        esSinRegistro
      }
    }
  }`}
)

// Mutaciones.
var (
	OpCrearItem = Operation{Name: "CrearItem", Document: `mutation CrearItem($input: ItemInput!) {
    crearItem(input: $input) {` + itemFields + `
    }
  }`}
	OpActualizarItem = Operation{Name: "ActualizarItem", Document: `mutation ActualizarItem($input: ItemUpdateInput!) {
    actualizarItem(input: $input) {` + itemFields + `
    }
  }`}
	OpEliminarItem = Operation{Name: "EliminarItem", Document: `mutation EliminarItem($id: String!) {
    eliminarItem(id: $id)
  }`}

	OpCrearCategoria = Operation{Name: "CrearCategoria", Document: `mutation CrearCategoria($input: CategoriaInput!) {
    crearCategoria(input: $input) {` + namedFields + `
    }
  }`}
	OpActualizarCategoria = Operation{Name: "ActualizarCategoria", Document: `mutation ActualizarCategoria($input: CategoriaUpdateInput!) {
    actualizarCategoria(input: $input) {` + namedFields + `
    }
  }`}
	OpEliminarCategoria = Operation{Name: "EliminarCategoria", Document: `mutation EliminarCategoria($id: String!) {
    eliminarCategoria(id: $id)
  }`}

	OpCrearUbicacion = Operation{Name: "CrearUbicacion", Document: `mutation CrearUbicacion($input: UbicacionInput!) {
    crearUbicacion(input: $input) {` + namedFields + `
    }
  }`}
	OpActualizarUbicacion = Operation{Name: "ActualizarUbicacion", Document: `mutation ActualizarUbicacion($input: UbicacionUpdateInput!) {
    actualizarUbicacion(input: $input) {` + namedFields + `
    }
  }`}
	OpEliminarUbicacion = Operation{Name: "EliminarUbicacion", Document: `mutation EliminarUbicacion($id: String!) {
    eliminarUbicacion(id: $id)
  }`}

	OpCrearRecepcion = Operation{Name: "CrearRecepcion", Document: `mutation CrearRecepcion($input: RecepcionInput!) {
    crearRecepcion(input: $input) {` + receiptFields + `
    }
  }`}
	OpActualizarRecepcion = Operation{Name: "ActualizarRecepcion", Document: `mutation ActualizarRecepcion($input: RecepcionUpdateInput!) {
    actualizarRecepcion(input: $input) {` + receiptFields + `
    }
  }`}
	OpEliminarRecepcion = Operation{Name: "EliminarRecepcion", Document: `mutation EliminarRecepcion($id: String!) {
    eliminarRecepcion(id: $id)
  }`}

	OpCrearEntrega = Operation{Name: "CrearEntrega", Document: `mutation CrearEntrega($input: EntregaInput!) {
    crearEntrega(input: $input) {` + deliveryFields + `
    }
  }`}
	OpActualizarEntrega = Operation{Name: "ActualizarEntrega", Document: `mutation ActualizarEntrega($input: EntregaUpdateInput!) {
    actualizarEntrega(input: $input) {` + deliveryFields + `
    }
  }`}
	OpEliminarEntrega = Operation{Name: "EliminarEntrega", Document: `mutation EliminarEntrega($id: String!) {
    eliminarEntrega(id: $id)
  }`}
)
